package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course represents an authored course. Content blobs (structure/lessons
// JSON, preview image) live in blob storage and are referenced by URL only.
type Course struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	AuthorID     uuid.UUID `json:"author_id" gorm:"type:uuid;index;not null"`
	PreviewURL   string    `json:"preview_url"`
	StructureURL string    `json:"structure_url"`
	LessonsURL   string    `json:"lessons_url"`
	Rating       float64   `json:"rating" gorm:"default:0"`
	Published    bool      `json:"published" gorm:"default:false"`
	IsDeleted    bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
