package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Option is one answer option of a normalized question.
type Option struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Correct bool   `json:"correct"`
}

// Question is the canonical normalized form persisted in CourseTest.Questions.
// It is validated once at the authoring boundary; grading never re-validates.
type Question struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Multiple bool     `json:"multiple"`
	Options  []Option `json:"options"`
}

// StudentOption is an option with the correct flag stripped.
type StudentOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// StudentQuestion is the view of a question served to a learner taking the test.
type StudentQuestion struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Multiple bool            `json:"multiple"`
	Options  []StudentOption `json:"options"`
}

// CourseTest is the self-assessment test of a course, at most one per course.
type CourseTest struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID     uuid.UUID      `json:"course_id" gorm:"type:uuid;uniqueIndex;not null"`
	Title        string         `json:"title" gorm:"not null"`
	Questions    datatypes.JSON `json:"questions" gorm:"not null"`
	PassingScore int            `json:"passing_score" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (t *CourseTest) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TestAttempt is one immutable grading result. Rows are only ever inserted;
// "latest attempt" is a query, not a mutable pointer.
type TestAttempt struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TestID         uuid.UUID      `json:"test_id" gorm:"type:uuid;index;not null"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Answers        datatypes.JSON `json:"answers" gorm:"not null"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	Passed         bool           `json:"passed"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (a *TestAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
