package courseRoutes

import (
	controllers "github.com/Ix1ax/upme-platform/controllers/course"
	"github.com/Ix1ax/upme-platform/middleware"
	validators "github.com/Ix1ax/upme-platform/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CatalogFilter(), controllers.GetAllCourses)
	courseGroup.Get("/authors", middleware.JWTMiddleware, controllers.GetCourseAuthors)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/lessons", middleware.JWTMiddleware, validators.CourseID(), controllers.ListLessons)

	// Enrollment lifecycle
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.CancelEnrollment)
	courseGroup.Get("/:id/enrollment", middleware.JWTMiddleware, validators.CourseID(), controllers.GetEnrollment)

	// Progress
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserProgress)
	courseGroup.Post("/:id/lessons/:lessonId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.CompleteLesson)

	// Tests
	courseGroup.Get("/:id/test", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseTest)
	courseGroup.Post("/:id/test/submit", middleware.JWTMiddleware, validators.CourseID(), validators.SubmitTest(), controllers.SubmitTest)
	courseGroup.Get("/:id/test/attempts/latest", middleware.JWTMiddleware, validators.CourseID(), controllers.GetLatestAttempt)

	// Reviews
	courseGroup.Get("/:id/reviews", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseReviews)
	courseGroup.Put("/:id/review", middleware.JWTMiddleware, validators.CourseID(), validators.UpsertReview(), controllers.UpsertReview)

	// Cross-course views
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetMyEnrollments)
}
