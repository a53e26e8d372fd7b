package models

import (
	"time"

	"gorm.io/gorm"
)

// CommunityPost is a forum post. LikesCount and CommentsCount are
// denormalized counters maintained by the community service.
type CommunityPost struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"index;not null" json:"user_id"`
	User          *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title         string `gorm:"not null" json:"title"`
	Content       string `gorm:"type:text;not null" json:"content"`
	PostType      string `gorm:"size:32;default:'general';index" json:"post_type"`
	Status        string `gorm:"size:16;default:'active'" json:"status"`
	LikesCount    int    `gorm:"default:0" json:"likes_count"`
	CommentsCount int    `gorm:"default:0" json:"comments_count"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type PostComment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PostID          uint           `gorm:"index;not null" json:"post_id"`
	Post            *CommunityPost `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID          uint           `gorm:"index;not null" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint          `json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// PostLike enforces at most one like per (user, post) pair.
type PostLike struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"uniqueIndex:idx_post_user_like;not null" json:"post_id"`
	Post      *CommunityPost `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint           `gorm:"uniqueIndex:idx_post_user_like;not null" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

type SafetyReport struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	UserID      uint     `gorm:"index;not null" json:"user_id"`
	User        *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReportType  string   `gorm:"size:32;not null" json:"report_type"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Status      string   `gorm:"size:16;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
