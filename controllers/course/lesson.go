package controllers

import (
	"encoding/json"
	"errors"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func findLesson(db *gorm.DB, courseID, lessonID uuid.UUID) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errLessonNotFound()
		}
		return nil, err
	}
	return &lesson, nil
}

func CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)

	body := c.Locals("validatedLesson").(*struct {
		Title      string          `json:"title" validate:"required,min=3,max=150"`
		Content    json.RawMessage `json:"content"`
		OrderIndex *int            `json:"order_index"`
	})

	course, err := findCourse(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	lesson := courseModels.Lesson{
		CourseID: course.ID,
		Title:    body.Title,
		Content:  datatypes.JSON("{}"),
	}
	if len(body.Content) > 0 {
		lesson.Content = datatypes.JSON(body.Content)
	}
	if body.OrderIndex != nil {
		lesson.OrderIndex = *body.OrderIndex
	} else {
		var count int64
		if err := database.Database.Db.Model(&courseModels.Lesson{}).
			Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
			return middleware.ErrorJSON(c, err)
		}
		lesson.OrderIndex = int(count)
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson created successfully!", lesson)
}

// ListLessons returns a course's lessons in authored order. Unpublished
// courses expose lessons to the owner and admins only.
func ListLessons(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)

	course, err := findCourse(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if !course.Published {
		if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
			return middleware.ErrorJSON(c, err)
		}
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.
		Where("course_id = ?", course.ID).
		Order("order_index asc, created_at asc").
		Find(&lessons).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func UpdateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)
	lessonID := c.Locals("lessonID").(uuid.UUID)

	body := c.Locals("validatedLessonUpdate").(*struct {
		Title      *string         `json:"title" validate:"omitempty,min=3,max=150"`
		Content    json.RawMessage `json:"content"`
		OrderIndex *int            `json:"order_index"`
	})

	course, err := findCourse(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	lesson, err := findLesson(database.Database.Db, course.ID, lessonID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	if body.Title != nil {
		lesson.Title = *body.Title
	}
	if len(body.Content) > 0 {
		lesson.Content = datatypes.JSON(body.Content)
	}
	if body.OrderIndex != nil {
		lesson.OrderIndex = *body.OrderIndex
	}

	if err := database.Database.Db.Save(lesson).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson removes a lesson. Progress rows pointing at it stop counting
// immediately; the nightly reconciler prunes them later.
func DeleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)
	lessonID := c.Locals("lessonID").(uuid.UUID)

	course, err := findCourse(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	lesson, err := findLesson(database.Database.Db, course.ID, lessonID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	if err := database.Database.Db.Delete(lesson).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
