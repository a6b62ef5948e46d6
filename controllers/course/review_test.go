package controllers

import (
	"testing"

	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeCourse(t *testing.T, db *gorm.DB, courseID, userID uuid.UUID) {
	t.Helper()

	var lessons []courseModels.Lesson
	require.NoError(t, db.Where("course_id = ?", courseID).Find(&lessons).Error)
	for _, lesson := range lessons {
		_, _, err := completeLesson(db, courseID, lesson.ID, userID)
		require.NoError(t, err)
	}
}

func TestReviewRequiresCompletedCourse(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	createTestLesson(t, db, course.ID, 0)
	userID := uuid.New()

	_, err := upsertReview(db, course.ID, userID, 5, "great")
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", appErrCode(t, err))

	_, err = enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	_, err = upsertReview(db, course.ID, userID, 5, "great")
	assert.Equal(t, "REVIEW_NOT_ALLOWED", appErrCode(t, err))

	completeCourse(t, db, course.ID, userID)

	review, err := upsertReview(db, course.ID, userID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewUpdatesCourseRating(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	createTestLesson(t, db, course.ID, 0)

	alice := uuid.New()
	bob := uuid.New()
	for _, userID := range []uuid.UUID{alice, bob} {
		_, err := enrollUser(db, course.ID, userID)
		require.NoError(t, err)
		completeCourse(t, db, course.ID, userID)
	}

	_, err := upsertReview(db, course.ID, alice, 5, "")
	require.NoError(t, err)
	_, err = upsertReview(db, course.ID, bob, 2, "")
	require.NoError(t, err)

	var stored courseModels.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.InDelta(t, 3.5, stored.Rating, 0.001)

	// A second write by the same learner replaces the earlier review.
	_, err = upsertReview(db, course.ID, bob, 4, "better on reread")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&courseModels.CourseReview{}).
		Where("course_id = ?", course.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.InDelta(t, 4.5, stored.Rating, 0.001)
}
