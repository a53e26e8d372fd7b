package models

import "time"

// RewardSourceType tags which feature produced a ledger entry.
type RewardSourceType string

const (
	RewardSourceBikeLog        RewardSourceType = "bike_log"
	RewardSourceBikeUsage      RewardSourceType = "bike_usage"
	RewardSourceQuiz           RewardSourceType = "quiz"
	RewardSourceCommunityPost  RewardSourceType = "community_post"
	RewardSourceComment        RewardSourceType = "post_comment"
	RewardSourceRecommendation RewardSourceType = "course_recommendation"
)

// Reward is one append-only ledger row per grant. Rows are never updated
// or deleted; the sum of ExperiencePoints per user must equal the user's
// experience_points column.
type Reward struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"index;not null" json:"user_id"`
	User             *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SourceType       RewardSourceType `gorm:"size:32;not null" json:"source_type"`
	SourceID         uint             `json:"source_id"`
	Points           int              `gorm:"default:0" json:"points"`
	ExperiencePoints int              `gorm:"default:0" json:"experience_points"`
	RewardReason     string           `gorm:"type:text" json:"reward_reason"`
	Status           string           `gorm:"size:16;default:'granted'" json:"status"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`
}
