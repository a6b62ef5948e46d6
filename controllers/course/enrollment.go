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

// findEnrollment fetches the caller's enrollment on a course. The message is
// caller-supplied because the same miss reads differently per operation.
func findEnrollment(db *gorm.DB, courseID, userID uuid.UUID, message string) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errEnrollmentNotFound(message)
		}
		return nil, err
	}
	return &enrollment, nil
}

// reactivateIfCancelled brings a cancelled enrollment back to active with a
// clean slate. Active and completed enrollments are returned untouched, so
// re-enrolling is idempotent and never resets earned progress.
func reactivateIfCancelled(db *gorm.DB, enrollment *courseModels.Enrollment) (*courseModels.Enrollment, error) {
	if enrollment.Status != courseModels.EnrollmentCancelled {
		return enrollment, nil
	}

	enrollment.Status = courseModels.EnrollmentActive
	enrollment.CompletedAt = nil
	if err := db.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func enrollUser(db *gorm.DB, courseID, userID uuid.UUID) (*courseModels.Enrollment, error) {
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published && course.AuthorID != userID {
		return nil, errCourseNotPublished()
	}

	var existing courseModels.Enrollment
	err = db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&existing).Error
	if err == nil {
		return reactivateIfCancelled(db, &existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := courseModels.Enrollment{
		CourseID: courseID,
		UserID:   userID,
		Status:   courseModels.EnrollmentActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		// A concurrent enroll may have won the unique index race; the
		// existing row is the answer either way.
		var raced courseModels.Enrollment
		if findErr := db.Where("course_id = ? AND user_id = ?", courseID, userID).
			First(&raced).Error; findErr == nil {
			return reactivateIfCancelled(db, &raced)
		}
		return nil, err
	}
	return &enrollment, nil
}

// cancelEnrollment marks the enrollment cancelled. Progress rows are kept so a
// later re-enroll resumes where the learner left off.
func cancelEnrollment(db *gorm.DB, courseID, userID uuid.UUID) (*courseModels.Enrollment, error) {
	enrollment, err := findEnrollment(db, courseID, userID, "You are not enrolled in this course!")
	if err != nil {
		return nil, err
	}
	if enrollment.Status == courseModels.EnrollmentCancelled {
		return enrollment, nil
	}

	enrollment.Status = courseModels.EnrollmentCancelled
	if err := db.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	enrollment, err := enrollUser(database.Database.Db, courseID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled successfully!", enrollment)
}

func CancelEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	enrollment, err := cancelEnrollment(database.Database.Db, courseID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled!", enrollment)
}

func GetEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	enrollment, err := findEnrollment(database.Database.Db, courseID, userID, "You are not enrolled in this course!")
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
