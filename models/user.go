package models

import (
	"time"

	"gorm.io/gorm"
)

// User is created on first Kakao login and accumulates points/experience
// from reward grants. Level is derived from user_levels and never edited
// directly.
type User struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	KakaoID          string `gorm:"uniqueIndex;not null" json:"kakao_id"`
	Username         string `gorm:"not null" json:"username"`
	Email            string `gorm:"not null" json:"email"`
	ProfileImageURL  string `gorm:"type:text" json:"profile_image_url,omitempty"`
	Points           int    `gorm:"default:0" json:"points"`
	ExperiencePoints int    `gorm:"default:0" json:"experience_points"`
	Level            int    `gorm:"default:1" json:"level"`
	IsAdmin          bool   `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSettings holds per-user preferences. A row is created alongside the
// user at registration.
type UserSettings struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	UserID              uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User                *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	NotificationEnabled bool   `gorm:"default:true" json:"notification_enabled"`
	LocationSharing     bool   `gorm:"default:false" json:"location_sharing"`
	PrivacyLevel        string `gorm:"size:16;default:'public'" json:"privacy_level"`
	Preferences         string `gorm:"type:text" json:"preferences,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserLevel is the static level threshold table. The assigned level is the
// highest row whose RequiredExp is <= the user's experience.
type UserLevel struct {
	Level       int    `gorm:"primaryKey" json:"level"`
	RequiredExp int    `gorm:"not null" json:"required_exp"`
	LevelName   string `gorm:"not null" json:"level_name"`
	Description string `gorm:"type:text" json:"description"`
	Benefits    string `gorm:"type:text" json:"benefits"`
}

// DefaultUserLevels seed the threshold table on first migrate.
var DefaultUserLevels = []UserLevel{
	{Level: 1, RequiredExp: 0, LevelName: "Beginner Rider", Description: "Just getting started", Benefits: "Basic features"},
	{Level: 2, RequiredExp: 100, LevelName: "Commuter", Description: "Riding regularly", Benefits: "Profile badge"},
	{Level: 3, RequiredExp: 300, LevelName: "Explorer", Description: "Exploring new courses", Benefits: "Course highlights"},
	{Level: 4, RequiredExp: 600, LevelName: "Veteran", Description: "A seasoned cyclist", Benefits: "Priority event entry"},
	{Level: 5, RequiredExp: 1000, LevelName: "Legend", Description: "Top of the leaderboard", Benefits: "All benefits"},
}
