package controllers

import (
	"encoding/json"
	"testing"

	"github.com/Ix1ax/upme-platform/middleware"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	// One underlying connection, or each session would get its own empty
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
		&courseModels.CourseTest{},
		&courseModels.TestAttempt{},
		&courseModels.CourseReview{},
	))
	return db
}

func createTestCourse(t *testing.T, db *gorm.DB, authorID uuid.UUID, published bool) *courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       "Intro to Distributed Systems",
		Description: "Consensus, replication and the rest.",
		AuthorID:    authorID,
		Published:   published,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func createTestLesson(t *testing.T, db *gorm.DB, courseID uuid.UUID, orderIndex int) *courseModels.Lesson {
	t.Helper()

	lesson := courseModels.Lesson{
		CourseID:   courseID,
		Title:      "Lesson",
		Content:    datatypes.JSON(`{"blocks":[]}`),
		OrderIndex: orderIndex,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*middleware.AppError)
	require.True(t, ok, "expected *middleware.AppError, got %T: %v", err, err)
	return appErr.Code
}

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
