package models

import (
	"time"

	"gorm.io/gorm"
)

// News is an admin-published article. Slug is generated from the title
// at creation time.
type News struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"index;not null" json:"slug"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	PublishedAt time.Time `json:"published_at" gorm:"autoCreateTime"`

	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
