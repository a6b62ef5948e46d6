package controllers

import (
	"errors"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// upsertReview stores one review per learner per course. Only learners who
// finished the course may review it; each write refreshes the course's
// average rating.
func upsertReview(db *gorm.DB, courseID, userID uuid.UUID, rating int, comment string) (*courseModels.CourseReview, error) {
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := findEnrollment(db, courseID, userID, "Enroll in the course before reviewing it!")
	if err != nil {
		return nil, err
	}
	if enrollment.Status != courseModels.EnrollmentCompleted && enrollment.ProgressPercent < 100 {
		return nil, errReviewNotAllowed()
	}

	var review courseModels.CourseReview
	err = db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&review).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review.CourseID = courseID
	review.UserID = userID
	review.Rating = rating
	review.Comment = comment
	if err := db.Save(&review).Error; err != nil {
		return nil, err
	}

	var avg float64
	if err := db.Model(&courseModels.CourseReview{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	course.Rating = avg
	if err := db.Save(course).Error; err != nil {
		return nil, err
	}

	return &review, nil
}

func GetCourseReviews(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uuid.UUID); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	if _, err := findCourse(database.Database.Db, courseID); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	var reviews []courseModels.CourseReview
	if err := database.Database.Db.
		Where("course_id = ?", courseID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", reviews)
}

func UpsertReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	body := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"max=2000"`
	})

	review, err := upsertReview(database.Database.Db, courseID, userID, body.Rating, body.Comment)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review saved successfully!", review)
}
