package courseValidator

import (
	"strings"

	"github.com/Ix1ax/upme-platform/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// fieldErrors flattens validator.ValidationErrors into the error map shape
// the response envelope expects.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[strings.ToLower(fe.Field())] = "Invalid value for " + fe.Field() + " (" + fe.Tag() + ")!"
		}
		return errors
	}
	errors["body"] = "Invalid request body!"
	return errors
}

// CourseID parses and validates the course id path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := uuid.Parse(idStr)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// LessonID parses and validates the lesson id path parameter
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("lessonId"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := uuid.Parse(idStr)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// CatalogFilter validates the catalog listing query parameters
func CatalogFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := new(struct {
			Query     string
			AuthorID  *uuid.UUID
			MinRating *float64
			Sort      string
		})

		filter.Query = strings.TrimSpace(c.Query("query"))

		if authorStr := strings.TrimSpace(c.Query("author_id")); authorStr != "" {
			authorID, err := uuid.Parse(authorStr)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid author_id!", nil)
			}
			filter.AuthorID = &authorID
		}

		if ratingStr := strings.TrimSpace(c.Query("min_rating")); ratingStr != "" {
			minRating := c.QueryFloat("min_rating", -1)
			if minRating < 0 || minRating > 5 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "min_rating must be between 0 and 5!", nil)
			}
			filter.MinRating = &minRating
		}

		switch sort := strings.TrimSpace(c.Query("sort")); sort {
		case "", "rating_desc", "rating_asc", "newest", "oldest":
			filter.Sort = sort
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid sort parameter!", nil)
		}

		c.Locals("validatedCatalogFilter", filter)
		return c.Next()
	}
}

// SubmitTest validates a test submission request
func SubmitTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[string][]string `json:"answers" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// UpsertReview validates a course review request
func UpsertReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Rating  int    `json:"rating" validate:"required,min=1,max=5"`
			Comment string `json:"comment" validate:"max=2000"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Comment = strings.TrimSpace(reqData.Comment)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
