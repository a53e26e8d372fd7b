package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz holds a question with its canonical answer and optional
// distractors. DisplayDate ("YYYY-MM-DD") marks it as that day's quiz.
type Quiz struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Question      string   `gorm:"type:text;not null" json:"question"`
	CorrectAnswer string   `gorm:"type:text;not null" json:"correct_answer"`
	Answers       []string `gorm:"serializer:json" json:"answers"`
	HintLink      string   `gorm:"type:text" json:"hint_link"`
	Explanation   string   `gorm:"type:text" json:"explanation"`
	DisplayDate   *string  `gorm:"size:10;index" json:"display_date,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizAttempt is immutable. Multiple attempts per user per quiz are
// allowed; only the first correct one is rewarded.
type QuizAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuizID      uint      `gorm:"index;not null" json:"quiz_id"`
	Quiz        *Quiz     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GivenAnswer string    `gorm:"type:text" json:"given_answer"`
	IsCorrect   bool      `gorm:"default:false" json:"is_correct"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
