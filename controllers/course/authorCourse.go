package controllers

import (
	"encoding/json"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"
	"github.com/Ix1ax/upme-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	body := c.Locals("validatedCourse").(*struct {
		Title       string          `json:"title" validate:"required,min=3,max=150"`
		Description string          `json:"description" validate:"max=5000"`
		PreviewURL  string          `json:"preview_url" validate:"omitempty,url"`
		Structure   json.RawMessage `json:"structure"`
		Lessons     json.RawMessage `json:"lessons"`
	})

	course := courseModels.Course{
		Title:       body.Title,
		Description: body.Description,
		AuthorID:    userID,
		PreviewURL:  body.PreviewURL,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	// Large structured payloads go to blob storage; the course row keeps URLs.
	if len(body.Structure) > 0 {
		url, err := utils.SaveCourseBlob(course.ID, "structure.json", body.Structure)
		if err != nil {
			return middleware.ErrorJSON(c, err)
		}
		course.StructureURL = url
	}
	if len(body.Lessons) > 0 {
		url, err := utils.SaveCourseBlob(course.ID, "lessons.json", body.Lessons)
		if err != nil {
			return middleware.ErrorJSON(c, err)
		}
		course.LessonsURL = url
	}
	if course.StructureURL != "" || course.LessonsURL != "" {
		if err := database.Database.Db.Save(&course).Error; err != nil {
			return middleware.ErrorJSON(c, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)

	body := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string         `json:"title" validate:"omitempty,min=3,max=150"`
		Description *string         `json:"description" validate:"omitempty,max=5000"`
		PreviewURL  *string         `json:"preview_url" validate:"omitempty,url"`
		Structure   json.RawMessage `json:"structure"`
		Lessons     json.RawMessage `json:"lessons"`
	})

	course, err := findCourse(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	if body.Title != nil {
		course.Title = *body.Title
	}
	if body.Description != nil {
		course.Description = *body.Description
	}
	if body.PreviewURL != nil {
		course.PreviewURL = *body.PreviewURL
	}
	if len(body.Structure) > 0 {
		url, err := utils.SaveCourseBlob(course.ID, "structure.json", body.Structure)
		if err != nil {
			return middleware.ErrorJSON(c, err)
		}
		course.StructureURL = url
	}
	if len(body.Lessons) > 0 {
		url, err := utils.SaveCourseBlob(course.ID, "lessons.json", body.Lessons)
		if err != nil {
			return middleware.ErrorJSON(c, err)
		}
		course.LessonsURL = url
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func PublishCourse(c *fiber.Ctx) error {
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
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	// Defaults to publishing; {"published": false} takes the course down.
	reqData := struct {
		Published *bool `json:"published"`
	}{}
	_ = c.BodyParser(&reqData)
	publish := reqData.Published == nil || *reqData.Published

	if publish {
		var lessonCount int64
		if err := database.Database.Db.Model(&courseModels.Lesson{}).
			Where("course_id = ?", course.ID).Count(&lessonCount).Error; err != nil {
			return middleware.ErrorJSON(c, err)
		}
		if lessonCount == 0 {
			return middleware.ErrorJSON(c, errValidation("Add at least one lesson before publishing!"))
		}
	}

	course.Published = publish
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	message := "Course published successfully!"
	if !publish {
		message = "Course unpublished successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// DeleteCourse soft-deletes; enrollments and attempts are retained for
// history but the course disappears from every lookup.
func DeleteCourse(c *fiber.Ctx) error {
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
	if err := ensureOwnerOrAdmin(course.AuthorID, userID, isAdmin); err != nil {
		return middleware.ErrorJSON(c, err)
	}

	course.IsDeleted = true
	course.Published = false
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("author_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
