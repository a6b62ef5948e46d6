package courseRoutes

import (
	controllers "github.com/Ix1ax/upme-platform/controllers/course"
	"github.com/Ix1ax/upme-platform/middleware"
	validators "github.com/Ix1ax/upme-platform/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthorRoutes sets up all author course management routes
func SetupAuthorRoutes(app *fiber.App) {
	authorGroup := app.Group("/author")

	// Course CRUD
	authorGroup.Post("/course", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	authorGroup.Get("/courses", middleware.JWTMiddleware, controllers.GetMyCourses)
	authorGroup.Put("/course/:id", middleware.JWTMiddleware, validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	authorGroup.Delete("/course/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourse)
	authorGroup.Put("/course/:id/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.PublishCourse)
	authorGroup.Get("/course/:id/dashboard", middleware.JWTMiddleware, validators.CourseID(), controllers.GetAuthorDashboard)

	// Lesson management
	authorGroup.Post("/course/:id/lessons", middleware.JWTMiddleware, validators.CourseID(), validators.CreateLesson(), controllers.CreateLesson)
	authorGroup.Put("/course/:id/lessons/:lessonId", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), validators.UpdateLesson(), controllers.UpdateLesson)
	authorGroup.Delete("/course/:id/lessons/:lessonId", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.DeleteLesson)

	// Test management
	authorGroup.Put("/course/:id/test", middleware.JWTMiddleware, validators.CourseID(), validators.UpsertTest(), controllers.UpsertCourseTest)
	authorGroup.Get("/course/:id/test/manage", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseTestForManage)
}
