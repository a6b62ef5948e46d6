package controllers

import (
	"errors"
	"time"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// GetAuthorDashboard aggregates enrollment and test activity for one course.
func GetAuthorDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)

	db := database.Database.Db

	course, err := findCourse(db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	var totalEnrollments, completedEnrollments, monthEnrollments int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", course.ID).
		Count(&totalEnrollments).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND status = ?", course.ID, courseModels.EnrollmentCompleted).
		Count(&completedEnrollments).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	monthStart := now.With(time.Now()).BeginningOfMonth()
	if err := db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND created_at >= ?", course.ID, monthStart).
		Count(&monthEnrollments).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	var avgProgress float64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND status <> ?", course.ID, courseModels.EnrollmentCancelled).
		Select("COALESCE(AVG(progress_percent), 0)").
		Scan(&avgProgress).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	var lessonCount int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ?", course.ID).
		Count(&lessonCount).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	// A course without a test legitimately has zero attempts; any other
	// lookup failure must surface, not report zeros.
	var totalAttempts, passedAttempts int64
	var test courseModels.CourseTest
	err = db.Where("course_id = ?", course.ID).First(&test).Error
	if err == nil {
		if err := db.Model(&courseModels.TestAttempt{}).
			Where("test_id = ?", test.ID).
			Count(&totalAttempts).Error; err != nil {
			return middleware.ErrorJSON(c, err)
		}
		if err := db.Model(&courseModels.TestAttempt{}).
			Where("test_id = ? AND passed = ?", test.ID, true).
			Count(&passedAttempts).Error; err != nil {
			return middleware.ErrorJSON(c, err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"course_id":             course.ID,
		"rating":                course.Rating,
		"published":             course.Published,
		"lesson_count":          lessonCount,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"month_enrollments":     monthEnrollments,
		"average_progress":      avgProgress,
		"total_attempts":        totalAttempts,
		"passed_attempts":       passedAttempts,
	})
}
