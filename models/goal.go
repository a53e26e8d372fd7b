package models

import (
	"time"

	"gorm.io/gorm"
)

type GoalType string

const (
	GoalDistance GoalType = "distance"
	GoalRides    GoalType = "rides"
	GoalDuration GoalType = "duration"
)

const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalExpired   = "expired"
)

// CyclingGoal is a self-set target over a period. The scheduler expires
// active goals once their end date passes.
type CyclingGoal struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	UserID      uint     `gorm:"index;not null" json:"user_id"`
	User        *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GoalType    GoalType `gorm:"size:16;not null" json:"goal_type"`
	TargetValue float64  `gorm:"not null" json:"target_value"`
	PeriodType  string   `gorm:"size:16;default:'monthly'" json:"period_type"`
	StartDate   string   `gorm:"size:10;not null" json:"start_date"`
	EndDate     string   `gorm:"size:10;not null" json:"end_date"`
	Status      string   `gorm:"size:16;default:'active';index" json:"status"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
