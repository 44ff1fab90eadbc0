package utils

import (
	"log"
	"time"

	"learntrack/database"
	trainingModels "learntrack/models/training"

	"github.com/robfig/cron/v3"
)

// abandonedAfter is how long a session may sit in_progress with no unit
// activity before the sweep pauses it. This is an explicit pause transition,
// not idle auto-pause: live sessions surface idleness to the user instead.
const abandonedAfter = 24 * time.Hour

// InitializeSessionScheduler sets up the abandoned-session sweep
func InitializeSessionScheduler() {
	log.Println("[SESSION-SCHEDULER] Initializing session scheduler...")

	c := cron.New()

	// Run hourly to pause sessions whose clients went away without pausing
	c.AddFunc("0 * * * *", func() {
		log.Println("[SESSION-SCHEDULER] Running abandoned session sweep...")
		PauseAbandonedSessions()
	})

	c.Start()
	log.Println("[SESSION-SCHEDULER] Session scheduler started - runs hourly")
}

// PauseAbandonedSessions pauses in_progress sessions with no activity for
// 24h. Completed sessions are never touched; completion is terminal.
func PauseAbandonedSessions() {
	db := database.Database.Db
	cutoff := time.Now().Add(-abandonedAfter)

	result := db.Model(&trainingModels.TrainingProgress{}).
		Where("status = ? AND updated_at < ?", trainingModels.StatusInProgress, cutoff).
		Update("status", trainingModels.StatusPaused)
	if result.Error != nil {
		log.Printf("[SESSION-SCHEDULER] Sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[SESSION-SCHEDULER] Paused %d abandoned sessions", result.RowsAffected)
	}
}
