package controllers

import (
	"testing"
	"time"

	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func enrollWithLessons(t *testing.T, db *gorm.DB, lessonCount int) (uuid.UUID, uuid.UUID, []*courseModels.Lesson) {
	t.Helper()

	course := createTestCourse(t, db, uuid.New(), true)
	lessons := make([]*courseModels.Lesson, lessonCount)
	for i := range lessons {
		lessons[i] = createTestLesson(t, db, course.ID, i)
	}

	userID := uuid.New()
	_, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)
	return course.ID, userID, lessons
}

func TestCompleteLessonProgression(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 4)

	expected := []int{25, 50, 75, 100}
	for i, lesson := range lessons {
		enrollment, snapshot, err := completeLesson(db, courseID, lesson.ID, userID)
		require.NoError(t, err)

		assert.Equal(t, expected[i], snapshot.Percent)
		assert.EqualValues(t, i+1, snapshot.CompletedLessons)
		assert.EqualValues(t, 4, snapshot.TotalLessons)

		if i < len(lessons)-1 {
			assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
			assert.Nil(t, enrollment.CompletedAt)
		} else {
			assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
			assert.NotNil(t, enrollment.CompletedAt)
		}
	}
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 2)

	_, first, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)
	_, second, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)

	assert.Equal(t, first.Percent, second.Percent)
	assert.EqualValues(t, 1, second.CompletedLessons)

	var count int64
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no duplicate progress rows")
}

func TestProgressRoundsHalfUp(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 3)

	_, snapshot, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 33, snapshot.Percent)

	_, snapshot, err = completeLesson(db, courseID, lessons[1].ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 67, snapshot.Percent)
}

func TestAddingLessonRegressesCompletedEnrollment(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 4)

	for _, lesson := range lessons {
		_, _, err := completeLesson(db, courseID, lesson.ID, userID)
		require.NoError(t, err)
	}

	createTestLesson(t, db, courseID, 4)

	enrollment, snapshot, err := getProgress(db, courseID, userID)
	require.NoError(t, err)

	assert.Equal(t, 80, snapshot.Percent)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt, "completion timestamp clears on regression")
}

func TestDeletedLessonStopsCounting(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 4)

	_, _, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)
	_, _, err = completeLesson(db, courseID, lessons[1].ID, userID)
	require.NoError(t, err)

	// Author deletes a completed lesson; its progress row must stop counting
	// even before the reconciler prunes it.
	require.NoError(t, db.Delete(lessons[1]).Error)

	_, snapshot, err := getProgress(db, courseID, userID)
	require.NoError(t, err)

	assert.EqualValues(t, 3, snapshot.TotalLessons)
	assert.EqualValues(t, 1, snapshot.CompletedLessons)
	assert.Equal(t, 33, snapshot.Percent)
}

func TestRoundedHundredPercentDoesNotComplete(t *testing.T) {
	db := setupTestDB(t)

	course := createTestCourse(t, db, uuid.New(), true)
	lessons := make([]courseModels.Lesson, 201)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{
			CourseID:   course.ID,
			Title:      "Lesson",
			Content:    datatypes.JSON(`{}`),
			OrderIndex: i,
		}
	}
	require.NoError(t, db.Create(&lessons).Error)

	userID := uuid.New()
	enrollment, err := enrollUser(db, course.ID, userID)
	require.NoError(t, err)

	completedAt := time.Now()
	rows := make([]courseModels.LessonProgress, 200)
	for i := range rows {
		rows[i] = courseModels.LessonProgress{
			EnrollmentID: enrollment.ID,
			LessonID:     lessons[i].ID,
			Status:       courseModels.LessonCompleted,
			CompletedAt:  &completedAt,
		}
	}
	require.NoError(t, db.Create(&rows).Error)

	// 200/201 rounds to 100% but one lesson is still unfinished.
	refreshed, snapshot, err := getProgress(db, course.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, 100, snapshot.Percent)
	assert.Equal(t, courseModels.EnrollmentActive, refreshed.Status)
	assert.Nil(t, refreshed.CompletedAt)

	_, _, err = completeLesson(db, course.ID, lessons[200].ID, userID)
	require.NoError(t, err)

	refreshed, _, err = getProgress(db, course.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentCompleted, refreshed.Status)
	assert.NotNil(t, refreshed.CompletedAt)
}

func TestDuplicateProgressInsertIsTranslated(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 1)

	_, _, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&enrollment).Error)

	// The unique index race fallback keys on this translation.
	duplicate := courseModels.LessonProgress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessons[0].ID,
		Status:       courseModels.LessonCompleted,
	}
	err = db.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProgressWithNoLessons(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, _ := enrollWithLessons(t, db, 0)

	enrollment, snapshot, err := getProgress(db, courseID, userID)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.Percent)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, uuid.New(), true)
	lesson := createTestLesson(t, db, course.ID, 0)

	_, _, err := completeLesson(db, course.ID, lesson.ID, uuid.New())
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", appErrCode(t, err))
}

func TestCompleteLessonOnCancelledEnrollment(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 1)

	_, err := cancelEnrollment(db, courseID, userID)
	require.NoError(t, err)

	_, _, err = completeLesson(db, courseID, lessons[0].ID, userID)
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", appErrCode(t, err))
}

func TestCompleteLessonFromAnotherCourse(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, _ := enrollWithLessons(t, db, 1)

	otherCourse := createTestCourse(t, db, uuid.New(), true)
	otherLesson := createTestLesson(t, db, otherCourse.ID, 0)

	_, _, err := completeLesson(db, courseID, otherLesson.ID, userID)
	assert.Equal(t, "LESSON_NOT_FOUND", appErrCode(t, err))
}

func TestGetProgressPersistsRecomputedState(t *testing.T) {
	db := setupTestDB(t)
	courseID, userID, lessons := enrollWithLessons(t, db, 2)

	_, _, err := completeLesson(db, courseID, lessons[0].ID, userID)
	require.NoError(t, err)

	// Force a stale stored percent; the read path must repair it.
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Update("progress_percent", 0).Error)

	_, snapshot, err := getProgress(db, courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, 50, snapshot.Percent)

	var stored courseModels.Enrollment
	require.NoError(t, db.Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&stored).Error)
	assert.Equal(t, 50, stored.ProgressPercent)
}
