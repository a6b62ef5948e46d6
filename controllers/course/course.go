package controllers

import (
	"errors"
	"strings"

	"github.com/Ix1ax/upme-platform/database"
	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"
	"github.com/Ix1ax/upme-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findCourse fetches a live course by id.
func findCourse(db *gorm.DB, id uuid.UUID) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCourseNotFound()
		}
		return nil, err
	}
	return &course, nil
}

// GetAllCourses lists published courses with catalog filters
func GetAllCourses(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uuid.UUID); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	filter, _ := c.Locals("validatedCatalogFilter").(*struct {
		Query     string
		AuthorID  *uuid.UUID
		MinRating *float64
		Sort      string
	})

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("published = ? AND is_deleted = ?", true, false)

	sort := "rating_desc"
	if filter != nil {
		if filter.Query != "" {
			like := "%" + strings.ToLower(filter.Query) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		if filter.AuthorID != nil {
			db = db.Where("author_id = ?", *filter.AuthorID)
		}
		if filter.MinRating != nil {
			db = db.Where("rating >= ?", *filter.MinRating)
		}
		if filter.Sort != "" {
			sort = filter.Sort
		}
	}

	switch sort {
	case "rating_asc":
		db = db.Order("rating asc")
	case "newest":
		db = db.Order("created_at desc")
	case "oldest":
		db = db.Order("created_at asc")
	default:
		db = db.Order("rating desc")
	}

	var courses []courseModels.Course
	if err := db.Find(&courses).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails returns one course; unpublished courses are visible to the
// owner and admins only
func GetCourseDetails(c *fiber.Ctx) error {
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

	var lessonCount int64
	if err := database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ?", course.ID).Count(&lessonCount).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	var testCount int64
	if err := database.Database.Db.Model(&courseModels.CourseTest{}).
		Where("course_id = ?", course.ID).Count(&testCount).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":         course,
		"lesson_count":   lessonCount,
		"test_available": testCount > 0,
	})
}

// GetCourseAuthors lists authors of published courses with course counts
func GetCourseAuthors(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uuid.UUID); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type authorRow struct {
		AuthorID     uuid.UUID `json:"author_id"`
		CoursesCount int64     `json:"courses_count"`
	}

	var rows []authorRow
	if err := database.Database.Db.Model(&courseModels.Course{}).
		Select("author_id, COUNT(*) AS courses_count").
		Where("published = ? AND is_deleted = ?", true, false).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorJSON(c, err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.AuthorID
	}
	names := utils.FetchAuthorNames(ids)

	authors := make([]fiber.Map, len(rows))
	for i, row := range rows {
		authors[i] = fiber.Map{
			"author_id":     row.AuthorID,
			"name":          names[row.AuthorID],
			"courses_count": row.CoursesCount,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Authors fetched successfully!", authors)
}
