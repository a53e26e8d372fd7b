package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseRecommendation is a user-submitted course with photo proof.
// It follows the same pending → verified|rejected workflow as bike
// activity logs and is capped at 2 non-rejected submissions per user
// per calendar week.
type CourseRecommendation struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	User         *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LocationName string `gorm:"not null" json:"location_name"`
	PhotoURL     string `gorm:"type:text;not null" json:"photo_url"`
	Review       string `gorm:"type:text;not null" json:"review"`

	Status            string     `gorm:"size:16;default:'pending';index" json:"status"`
	PointsAwarded     int        `gorm:"default:0" json:"points_awarded"`
	ReviewedByAdminID *uint      `json:"reviewed_by_admin_id,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
