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

func findCourseTest(db *gorm.DB, courseID uuid.UUID) (*courseModels.CourseTest, error) {
	var test courseModels.CourseTest
	if err := db.Where("course_id = ?", courseID).First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTestNotFound()
		}
		return nil, err
	}
	return &test, nil
}

func decodeQuestions(test *courseModels.CourseTest) ([]courseModels.Question, error) {
	var questions []courseModels.Question
	if err := json.Unmarshal(test.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// upsertCourseTest replaces the course test wholesale. Past attempts keep
// their recorded scores; only future submissions see the new answer key.
func upsertCourseTest(db *gorm.DB, courseID, callerID uuid.UUID, isAdmin bool, title string, rawQuestions json.RawMessage, passingScore *int) (*courseModels.CourseTest, error) {
	course, err := findCourse(db, courseID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnerOrAdmin(course.AuthorID, callerID, isAdmin); err != nil {
		return nil, err
	}

	questions, err := normalizeQuestions(rawQuestions)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	var test courseModels.CourseTest
	err = db.Where("course_id = ?", courseID).First(&test).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	test.CourseID = courseID
	test.Title = title
	test.Questions = datatypes.JSON(encoded)
	test.PassingScore = resolvePassingScore(passingScore, len(questions))

	if err := db.Save(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// gradeSubmission scores answers against the canonical questions. A question
// counts only when the submitted keys match the correct set exactly; a
// missing answer is an empty set.
func gradeSubmission(questions []courseModels.Question, answers map[string][]string) int {
	correct := 0
	for _, q := range questions {
		expected := make(map[string]bool)
		for _, opt := range q.Options {
			if opt.Correct {
				expected[opt.Key] = true
			}
		}

		submitted := make(map[string]bool)
		for _, key := range answers[q.ID] {
			submitted[key] = true
		}

		if len(submitted) != len(expected) {
			continue
		}
		match := true
		for key := range expected {
			if !submitted[key] {
				match = false
				break
			}
		}
		if match {
			correct++
		}
	}
	return correct
}

func submitTest(db *gorm.DB, courseID, userID uuid.UUID, answers map[string][]string) (*courseModels.TestAttempt, error) {
	test, err := findCourseTest(db, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := findEnrollment(db, courseID, userID, "Enroll in the course before taking the test!"); err != nil {
		return nil, err
	}

	questions, err := decodeQuestions(test)
	if err != nil {
		return nil, err
	}

	correct := gradeSubmission(questions, answers)
	passingScore := resolvePassingScore(&test.PassingScore, len(questions))

	encodedAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	attempt := courseModels.TestAttempt{
		TestID:         test.ID,
		UserID:         userID,
		Answers:        datatypes.JSON(encodedAnswers),
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Passed:         correct >= passingScore,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// testForLearner fetches the test for an enrolled learner with the answer
// key stripped.
func testForLearner(db *gorm.DB, courseID, userID uuid.UUID) (*courseModels.CourseTest, []courseModels.StudentQuestion, error) {
	test, err := findCourseTest(db, courseID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := findEnrollment(db, courseID, userID, "Enroll in the course to take the test!"); err != nil {
		return nil, nil, err
	}

	questions, err := decodeQuestions(test)
	if err != nil {
		return nil, nil, err
	}
	return test, sanitizeQuestions(questions), nil
}

func latestAttempt(db *gorm.DB, courseID, userID uuid.UUID) (*courseModels.TestAttempt, error) {
	test, err := findCourseTest(db, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := findEnrollment(db, courseID, userID, "Enroll in the course to see your attempts!"); err != nil {
		return nil, err
	}

	var attempt courseModels.TestAttempt
	err = db.Where("test_id = ? AND user_id = ?", test.ID, userID).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAttemptNotFound()
		}
		return nil, err
	}
	return &attempt, nil
}

// UpsertCourseTest creates or replaces the test of a course.
func UpsertCourseTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("courseID").(uuid.UUID)

	body := c.Locals("validatedTest").(*struct {
		Title        string          `json:"title" validate:"required,min=3,max=150"`
		Questions    json.RawMessage `json:"questions" validate:"required"`
		PassingScore *int            `json:"passing_score"`
	})

	test, err := upsertCourseTest(database.Database.Db, courseID, userID, isAdmin, body.Title, body.Questions, body.PassingScore)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test saved successfully!", test)
}

// GetCourseTestForManage returns the test with answer keys for the author.
func GetCourseTestForManage(c *fiber.Ctx) error {
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

	test, err := findCourseTest(database.Database.Db, courseID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test fetched successfully!", test)
}

// GetCourseTest returns the learner view of the test, without answer keys.
func GetCourseTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	test, questions, err := testForLearner(database.Database.Db, courseID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test fetched successfully!", fiber.Map{
		"id":            test.ID,
		"course_id":     test.CourseID,
		"title":         test.Title,
		"passing_score": test.PassingScore,
		"questions":     questions,
	})
}

func SubmitTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	body := c.Locals("validatedSubmission").(*struct {
		Answers map[string][]string `json:"answers" validate:"required"`
	})

	attempt, err := submitTest(database.Database.Db, courseID, userID, body.Answers)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test submitted successfully!", attempt)
}

func GetLatestAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uuid.UUID)

	attempt, err := latestAttempt(database.Database.Db, courseID, userID)
	if err != nil {
		return middleware.ErrorJSON(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", attempt)
}
