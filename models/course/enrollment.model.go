package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentCancelled = "CANCELLED"
)

// Enrollment tracks a user's participation in a course. One row per
// (course, user); ProgressPercent is always recomputed, never set by clients.
type Enrollment struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID        uuid.UUID  `json:"course_id" gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_user"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_user"`
	Status          string     `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, COMPLETED, CANCELLED
	ProgressPercent int        `json:"progress_percent" gorm:"default:0"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
