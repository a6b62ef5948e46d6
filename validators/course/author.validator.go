package courseValidator

import (
	"encoding/json"
	"strings"

	"github.com/Ix1ax/upme-platform/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse validates an author course creation request
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string          `json:"title" validate:"required,min=3,max=150"`
			Description string          `json:"description" validate:"max=5000"`
			PreviewURL  string          `json:"preview_url" validate:"omitempty,url"`
			Structure   json.RawMessage `json:"structure"`
			Lessons     json.RawMessage `json:"lessons"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.PreviewURL = strings.TrimSpace(reqData.PreviewURL)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates an author course update request
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string         `json:"title" validate:"omitempty,min=3,max=150"`
			Description *string         `json:"description" validate:"omitempty,max=5000"`
			PreviewURL  *string         `json:"preview_url" validate:"omitempty,url"`
			Structure   json.RawMessage `json:"structure"`
			Lessons     json.RawMessage `json:"lessons"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != nil {
			trimmed := strings.TrimSpace(*reqData.Title)
			reqData.Title = &trimmed
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CreateLesson validates a lesson creation request
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      string          `json:"title" validate:"required,min=3,max=150"`
			Content    json.RawMessage `json:"content"`
			OrderIndex *int            `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates a lesson update request
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      *string         `json:"title" validate:"omitempty,min=3,max=150"`
			Content    json.RawMessage `json:"content"`
			OrderIndex *int            `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != nil {
			trimmed := strings.TrimSpace(*reqData.Title)
			reqData.Title = &trimmed
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// UpsertTest validates a test authoring request. Question shape is validated
// in the controller normalization step; this only gates the envelope.
func UpsertTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string          `json:"title" validate:"required,min=3,max=150"`
			Questions    json.RawMessage `json:"questions" validate:"required"`
			PassingScore *int            `json:"passing_score"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedTest", reqData)
		return c.Next()
	}
}
