package controllers

import (
	"testing"
	"time"

	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	userID := uuid.New()

	enrollment, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 0, enrollment.ProgressPercent)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnrollIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	userID := uuid.New()

	first, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)
	second, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND user_id = ?", course.ID, userID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollDoesNotResetCompletedEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	userID := uuid.New()

	enrollment, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	completedAt := time.Now().Add(-time.Hour)
	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.ProgressPercent = 100
	enrollment.CompletedAt = &completedAt
	require.NoError(t, db.Save(enrollment).Error)

	again, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, courseModels.EnrollmentCompleted, again.Status)
	assert.Equal(t, 100, again.ProgressPercent)
	require.NotNil(t, again.CompletedAt)
}

func TestCancelAndReenroll(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	userID := uuid.New()

	enrollment, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	cancelled, err := cancelEnrollment(db, course.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentCancelled, cancelled.Status)

	// Cancelling again is a no-op.
	cancelled, err = cancelEnrollment(db, course.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentCancelled, cancelled.Status)

	reactivated, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, enrollment.ID, reactivated.ID, "re-enrolling reuses the same row")
	assert.Equal(t, courseModels.EnrollmentActive, reactivated.Status)
	assert.Nil(t, reactivated.CompletedAt)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)
	authorID := uuid.New()
	course := createTestCourse(t, db, authorID, false)

	_, err := enrollUser(db, course.ID, uuid.New())
	assert.Equal(t, "COURSE_NOT_PUBLISHED", appErrCode(t, err))

	// The author can preview their own unpublished course.
	enrollment, err := enrollUser(db, course.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
}

func TestEnrollMissingCourse(t *testing.T) {
	db := setupTestDB(t)

	_, err := enrollUser(db, uuid.New(), uuid.New())
	assert.Equal(t, "COURSE_NOT_FOUND", appErrCode(t, err))
}

func TestEnrollSoftDeletedCourse(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	course.IsDeleted = true
	require.NoError(t, db.Save(course).Error)

	_, err := enrollUser(db, course.ID, uuid.New())
	assert.Equal(t, "COURSE_NOT_FOUND", appErrCode(t, err))
}

func TestCancelWithoutEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)

	_, err := cancelEnrollment(db, course.ID, uuid.New())
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", appErrCode(t, err))
}
