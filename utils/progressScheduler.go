package utils

import (
	"log"

	"github.com/Ix1ax/upme-platform/config"
	"github.com/Ix1ax/upme-platform/database"
	courseModels "github.com/Ix1ax/upme-platform/models/course"

	"github.com/robfig/cron/v3"
)

// StartProgressReconciler schedules the nightly cleanup of progress rows
// whose lesson was deleted. Progress math already ignores them; this keeps
// the table from accumulating dead rows.
func StartProgressReconciler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.ReconcilerSchedule, reconcileLessonProgress)
	if err != nil {
		log.Printf("Failed to schedule progress reconciler: %v", err)
		return c
	}

	c.Start()
	log.Printf("Progress reconciler scheduled: %s", config.AppConfig.ReconcilerSchedule)
	return c
}

func reconcileLessonProgress() {
	result := database.Database.Db.
		Where("lesson_id NOT IN (?)",
			database.Database.Db.Model(&courseModels.Lesson{}).Select("id")).
		Delete(&courseModels.LessonProgress{})
	if result.Error != nil {
		log.Printf("Progress reconciliation failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Progress reconciliation removed %d orphaned rows", result.RowsAffected)
	}
}
