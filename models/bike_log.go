package models

import (
	"time"

	"gorm.io/gorm"
)

// BikeLogType distinguishes plain ride logs from activity-verification
// submissions (which carry proof and go through admin review).
type BikeLogType string

const (
	BikeLogRide     BikeLogType = "ride"
	BikeLogActivity BikeLogType = "activity"
)

// Verification workflow states shared with course recommendations.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// BikeUsageLog is one row per ride or per activity-verification
// submission. An admin transitions a pending log exactly once.
type BikeUsageLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	User        *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LogType     BikeLogType `gorm:"size:16;default:'ride'" json:"log_type"`
	Description string      `gorm:"type:text;not null" json:"description"`

	StartLatitude  *float64 `json:"start_latitude,omitempty"`
	StartLongitude *float64 `json:"start_longitude,omitempty"`
	EndLatitude    *float64 `json:"end_latitude,omitempty"`
	EndLongitude   *float64 `json:"end_longitude,omitempty"`

	Distance        float64 `gorm:"default:0" json:"distance"`
	DurationMinutes int     `gorm:"default:0" json:"duration_minutes"`
	PhotoURL        string  `gorm:"type:text" json:"photo_url,omitempty"`

	VerificationStatus string     `gorm:"size:16;default:'pending';index" json:"verification_status"`
	PointsAwarded      int        `gorm:"default:0" json:"points_awarded"`
	VerifiedByAdminID  *uint      `json:"verified_by_admin_id,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`

	UsageTime time.Time      `json:"usage_time" gorm:"autoCreateTime"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
