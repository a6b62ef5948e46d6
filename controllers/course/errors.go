package controllers

import (
	"github.com/Ix1ax/upme-platform/middleware"

	"github.com/gofiber/fiber/v2"
)

// The closed set of domain failures of the course engine. Handlers return
// these; middleware.ErrorJSON maps them to transport responses.

func errCourseNotFound() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusNotFound, "COURSE_NOT_FOUND", "Course not found!")
}

func errLessonNotFound() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusNotFound, "LESSON_NOT_FOUND", "Lesson not found in this course!")
}

func errTestNotFound() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusNotFound, "TEST_NOT_FOUND", "Test for this course not found!")
}

func errEnrollmentNotFound(message string) *middleware.AppError {
	return middleware.NewAppError(fiber.StatusNotFound, "ENROLLMENT_NOT_FOUND", message)
}

func errAttemptNotFound() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusNotFound, "ATTEMPT_NOT_FOUND", "No test attempts yet!")
}

func errAccessDenied() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusForbidden, "ACCESS_DENIED", "You do not have access to this course!")
}

func errCourseNotPublished() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusForbidden, "COURSE_NOT_PUBLISHED", "Course is not published yet!")
}

func errReviewNotAllowed() *middleware.AppError {
	return middleware.NewAppError(fiber.StatusForbidden, "REVIEW_NOT_ALLOWED", "Complete the course to leave a review!")
}

func errValidation(message string) *middleware.AppError {
	return middleware.NewAppError(fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", message)
}
