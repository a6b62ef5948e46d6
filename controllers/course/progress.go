package controllers

import (
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type progressSnapshot struct {
	CompletedLessons int64 `json:"completed_lessons"`
	TotalLessons     int64 `json:"total_lessons"`
	Percent          int   `json:"percent"`
}

// refreshEnrollmentProgress recounts lesson completion and applies the status
// transitions. Completed progress rows are counted against the live lesson
// set, so a deleted lesson stops contributing the moment it is gone. The
// enrollment is mutated but not saved; the caller owns persistence.
func refreshEnrollmentProgress(tx *gorm.DB, enrollment *courseModels.Enrollment) (progressSnapshot, error) {
	var snapshot progressSnapshot

	if err := tx.Model(&courseModels.Lesson{}).
		Where("course_id = ?", enrollment.CourseID).
		Count(&snapshot.TotalLessons).Error; err != nil {
		return snapshot, err
	}

	if err := tx.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.enrollment_id = ? AND lesson_progresses.status = ?",
			enrollment.ID, courseModels.LessonCompleted).
		Count(&snapshot.CompletedLessons).Error; err != nil {
		return snapshot, err
	}

	if snapshot.TotalLessons > 0 {
		snapshot.Percent = int(math.Round(float64(snapshot.CompletedLessons) * 100 / float64(snapshot.TotalLessons)))
	}
	enrollment.ProgressPercent = snapshot.Percent

	// Completion is decided on raw counts, never on the rounded percent:
	// 200 of 201 lessons rounds to 100% but the course is not finished.
	if snapshot.TotalLessons > 0 && snapshot.CompletedLessons >= snapshot.TotalLessons {
		if enrollment.Status != courseModels.EnrollmentCompleted {
			enrollment.Status = courseModels.EnrollmentCompleted
			if enrollment.CompletedAt == nil {
				completedAt := time.Now()
				enrollment.CompletedAt = &completedAt
			}
		}
	} else if enrollment.Status == courseModels.EnrollmentCompleted {
		// The course grew after completion; the learner is active again.
		enrollment.Status = courseModels.EnrollmentActive
		enrollment.CompletedAt = nil
	}

	return snapshot, nil
}

// completeLesson records a lesson completion and recomputes the enrollment in
// one serializable transaction, so two concurrent completions of the last two
// lessons cannot both read a stale count.
func completeLesson(db *gorm.DB, courseID, lessonID, userID uuid.UUID) (*courseModels.Enrollment, progressSnapshot, error) {
	var snapshot progressSnapshot

	tx := db.Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, snapshot, tx.Error
	}
	defer tx.Rollback()

	enrollment, err := findEnrollment(tx, courseID, userID, "Enroll in the course before completing lessons!")
	if err != nil {
		return nil, snapshot, err
	}
	if enrollment.Status == courseModels.EnrollmentCancelled {
		return nil, snapshot, errEnrollmentNotFound("Enrollment is cancelled; re-enroll to continue!")
	}

	var lesson courseModels.Lesson
	if err := tx.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, snapshot, errLessonNotFound()
		}
		return nil, snapshot, err
	}

	now := time.Now()
	var progress courseModels.LessonProgress
	err = tx.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lesson.ID).First(&progress).Error
	switch {
	case err == nil:
		progress.Status = courseModels.LessonCompleted
		progress.CompletedAt = &now
		if err := tx.Save(&progress).Error; err != nil {
			return nil, snapshot, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = courseModels.LessonProgress{
			EnrollmentID: enrollment.ID,
			LessonID:     lesson.ID,
			Status:       courseModels.LessonCompleted,
			CompletedAt:  &now,
		}
		if err := tx.Create(&progress).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, snapshot, err
			}
			// Lost the unique index race; mark the winner's row completed.
			if err := tx.Model(&courseModels.LessonProgress{}).
				Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lesson.ID).
				Updates(map[string]interface{}{
					"status":       courseModels.LessonCompleted,
					"completed_at": &now,
				}).Error; err != nil {
				return nil, snapshot, err
			}
		}
	default:
		return nil, snapshot, err
	}

	snapshot, err = refreshEnrollmentProgress(tx, enrollment)
	if err != nil {
		return nil, snapshot, err
	}
	if err := tx.Save(enrollment).Error; err != nil {
		return nil, snapshot, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, snapshot, err
	}
	return enrollment, snapshot, nil
}

// getProgress recomputes progress on read so a lesson added or removed since
// the last completion is reflected without any learner action.
func getProgress(db *gorm.DB, courseID, userID uuid.UUID) (*courseModels.Enrollment, progressSnapshot, error) {
	var snapshot progressSnapshot

	tx := db.Begin()
	if tx.Error != nil {
		return nil, snapshot, tx.Error
	}
	defer tx.Rollback()

	enrollment, err := findEnrollment(tx, courseID, userID, "You are not enrolled in this course!")
	if err != nil {
		return nil, snapshot, err
	}

	snapshot, err = refreshEnrollmentProgress(tx, enrollment)
	if err != nil {
		return nil, snapshot, err
	}
	if err := tx.Save(enrollment).Error; err != nil {
		return nil, snapshot, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, snapshot, err
	}
	return enrollment, snapshot, nil
}

func buildProgressView(db *gorm.DB, enrollment *courseModels.Enrollment, snapshot progressSnapshot) (fiber.Map, error) {
	view := fiber.Map{
		"enrollment":        enrollment,
		"completed_lessons": snapshot.CompletedLessons,
		"total_lessons":     snapshot.TotalLessons,
		"percent":           snapshot.Percent,
	}

	var lastCompleted courseModels.LessonProgress
	err := db.Where("enrollment_id = ? AND status = ?", enrollment.ID, courseModels.LessonCompleted).
		Order("completed_at DESC, created_at DESC").
		First(&lastCompleted).Error
	if err == nil {
		view["last_completed_lesson_id"] = lastCompleted.LessonID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var test courseModels.CourseTest
	err = db.Where("course_id = ?", enrollment.CourseID).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			view["test_available"] = false
			return view, nil
		}
		return nil, err
	}
	view["test_available"] = true

	var attempt courseModels.TestAttempt
	err = db.Where("test_id = ? AND user_id = ?", test.ID, enrollment.UserID).
		Order("created_at DESC").
		First(&attempt).Error
	if err == nil {
		view["latest_attempt"] = attempt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return view, nil
}

func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	enrollment, snapshot, err := getProgress(database.Database.Db, courseID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	view, err := buildProgressView(database.Database.Db, enrollment, snapshot)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", view)
}

func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)
	lessonID := c.Locals("lessonID").(uuid.UUID)

	enrollment, snapshot, err := completeLesson(database.Database.Db, courseID, lessonID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	view, err := buildProgressView(database.Database.Db, enrollment, snapshot)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed!", view)
}
