package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"likebike-server/models"
	"likebike-server/utils"
)

// StartGoalScheduler expires active cycling goals whose end date has
// passed, checking hourly. Dates are calendar days in KST, so a goal
// stays active through the whole of its end date.
func (s *CommunityService) StartGoalScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			today := utils.TodayKST(time.Now())
			res := s.DB.Model(&models.CyclingGoal{}).
				Where("status = ? AND end_date < ?", models.GoalActive, today).
				Update("status", models.GoalExpired)
			if res.Error != nil {
				log.Printf("[Scheduler] goal expiry failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("[Scheduler] expired %d cycling goals", res.RowsAffected)
			}
		}),
	)
}
