package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"likebike-server/models"
)

// Fixed reward rules. Ride rewards scale with whole kilometers; the
// rest are flat amounts.
const (
	RideBasePoints  = 5
	RidePointsPerKm = 2

	QuizPoints     = 10
	QuizExperience = 10

	PostPoints     = 2
	PostExperience = 1

	CommentPoints     = 1
	CommentExperience = 1
)

// RideReward computes base + floor(distance) * rate for a logged ride.
func RideReward(distance float64) int {
	return RideBasePoints + int(math.Floor(distance))*RidePointsPerKm
}

// GrantResult reports what a single grant did to the user.
type GrantResult struct {
	Points     int  `json:"points_earned"`
	Experience int  `json:"experience_earned"`
	Level      int  `json:"level"`
	LevelUp    bool `json:"level_up"`
}

// RewardService owns the one reward-granting path shared by every
// feature: bump the user's counters, append a ledger row, recompute the
// level. Call sites only supply (source, amounts, reason).
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// Grant must run inside the same transaction as the primary write so a
// failure leaves no ledger-without-balance state. Counter updates are
// clamped at zero.
func (s *RewardService) Grant(tx *gorm.DB, userID uint, sourceType models.RewardSourceType, sourceID uint, points, exp int, reason string) (*GrantResult, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("reward target user %d not found: %w", userID, err)
	}

	oldLevel := user.Level
	user.Points = clampNonNegative(user.Points + points)
	user.ExperiencePoints = clampNonNegative(user.ExperiencePoints + exp)

	newLevel, err := s.levelFor(tx, user.ExperiencePoints)
	if err != nil {
		return nil, err
	}
	user.Level = newLevel

	if err := tx.Save(&user).Error; err != nil {
		return nil, err
	}

	entry := models.Reward{
		UserID:           userID,
		SourceType:       sourceType,
		SourceID:         sourceID,
		Points:           points,
		ExperiencePoints: exp,
		RewardReason:     reason,
		Status:           "granted",
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &GrantResult{
		Points:     points,
		Experience: exp,
		Level:      newLevel,
		LevelUp:    newLevel > oldLevel,
	}, nil
}

// levelFor picks the highest threshold whose requirement is met.
func (s *RewardService) levelFor(tx *gorm.DB, experience int) (int, error) {
	var threshold models.UserLevel
	err := tx.Where("required_exp <= ?", experience).
		Order("level DESC").
		First(&threshold).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return threshold.Level, nil
}

// HasCorrectAttempt reports whether the user already solved this quiz,
// the only de-duplication rule in the reward system.
func (s *RewardService) HasCorrectAttempt(tx *gorm.DB, userID, quizID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_correct = ?", userID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
