package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LessonNotStarted = "NOT_STARTED"
	LessonInProgress = "IN_PROGRESS"
	LessonCompleted  = "COMPLETED"
)

// LessonProgress is a per-lesson completion record tied to one enrollment.
// One row per (enrollment, lesson); CompletedAt is set only while COMPLETED.
type LessonProgress struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EnrollmentID uuid.UUID  `json:"enrollment_id" gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_enrollment_lesson"`
	LessonID     uuid.UUID  `json:"lesson_id" gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_enrollment_lesson"`
	Status       string     `json:"status" gorm:"default:'IN_PROGRESS'"` // NOT_STARTED, IN_PROGRESS, COMPLETED
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
