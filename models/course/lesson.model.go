package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson belongs to exactly one course and is ordered by OrderIndex.
// Content is an opaque JSON document rendered by the frontend.
type Lesson struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID   uuid.UUID      `json:"course_id" gorm:"type:uuid;index;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Content    datatypes.JSON `json:"content" gorm:"not null"`
	OrderIndex int            `json:"order_index" gorm:"default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
