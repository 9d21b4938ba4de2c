package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// logJanitor logs janitor events with timestamp
func logJanitor(message string) {
	log.Printf("[VIDEO-JANITOR %s] %s", time.Now().Format(time.RFC3339), message)
}

// failStuckVideos marks video lessons that stayed in PROCESSING for too long
// as FAILED so the authoring UI stops showing them as pending forever.
func failStuckVideos() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.VideoStuckHours) * time.Hour)

	result := db.Model(&courseModels.Lesson{}).
		Where("resourcetype = ? AND processing_status = ? AND updated_at < ? AND is_deleted = ?",
			"VideoLesson", courseModels.VideoProcessing, cutoff, false).
		Update("processing_status", courseModels.VideoFailed)

	if result.Error != nil {
		logJanitor("Error updating stuck videos: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logJanitor("Marked stuck video lessons FAILED")
	}
}

// StartVideoJanitor schedules the stuck-video sweep every 30 minutes.
func StartVideoJanitor() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("*/30 * * * *", failStuckVideos); err != nil {
		log.Fatalf("Failed to schedule video janitor: %v", err)
	}

	c.Start()
	logJanitor("Video janitor started")
	return c
}
