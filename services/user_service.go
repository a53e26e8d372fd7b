package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/models"
	"likebike-server/utils"
)

type UserService struct {
	DB      *gorm.DB
	Kakao   KakaoUserFetcher
	Tokens  *utils.TokenIssuer
	Rewards *RewardService
}

func NewUserService(db *gorm.DB, kakao KakaoUserFetcher, tokens *utils.TokenIssuer, rewards *RewardService) *UserService {
	return &UserService{DB: db, Kakao: kakao, Tokens: tokens, Rewards: rewards}
}

// Register exchanges a Kakao access token for a local account and an
// identity token. Existing accounts just get a fresh token.
func (s *UserService) Register(c *fiber.Ctx) error {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.AccessToken == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "access_token required")
	}

	info, err := s.Kakao.FetchUserInfo(req.AccessToken)
	if err != nil {
		log.Printf("kakao user info fetch failed: %v", err)
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid kakao token")
	}

	kakaoID := strconv.FormatInt(info.ID, 10)
	username := info.Nickname
	if username == "" {
		username = "user"
	}
	email := info.Email
	if email == "" {
		email = fmt.Sprintf("%s@kakao", kakaoID)
	}

	var user models.User
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("kakao_id = ?", kakaoID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				KakaoID:         kakaoID,
				Username:        username,
				Email:           email,
				ProfileImageURL: info.ProfileImage,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.UserSettings{UserID: user.ID}).Error
		}
		return err
	})
	if err != nil {
		log.Printf("user registration failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to register user")
	}

	token, err := s.Tokens.Issue(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to issue token")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

// RefreshToken issues a new token with the same claims. The old token
// stays valid until it expires on its own.
func (s *UserService) RefreshToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.RespondError(c, fiber.StatusUnauthorized, "authorization token required")
	}

	token, err := s.Tokens.Refresh(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return utils.RespondError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{"token": token})
}

// GetProfile returns the user row joined with its level metadata.
func (s *UserService) GetProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	var level models.UserLevel
	if err := s.DB.First(&level, user.Level).Error; err != nil {
		level = models.UserLevel{Level: user.Level}
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"profile_image_url": user.ProfileImageURL,
		"points":            user.Points,
		"experience_points": user.ExperiencePoints,
		"level":             user.Level,
		"level_name":        level.LevelName,
		"description":       level.Description,
		"benefits":          level.Benefits,
		"created_at":        user.CreatedAt,
	})
}

// UpdateUser applies a partial profile edit, keeping current values for
// fields the request omits.
func (s *UserService) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == nil && req.Email == nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "nothing to update")
	}

	userID := middleware.CurrentUserID(c)
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// DeleteUser withdraws the account. The delete is hard so ownership
// cascades remove every row the user created.
func (s *UserService) DeleteUser(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	res := s.DB.Unscoped().Delete(&models.User{}, userID)
	if res.Error != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return utils.RespondError(c, fiber.StatusNotFound, "user not found")
	}

	return utils.Respond(c, fiber.StatusNoContent, nil)
}

// GetSettings returns the user's settings, creating defaults when the
// row is missing.
func (s *UserService) GetSettings(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var settings models.UserSettings
	err := s.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID}
		if err := s.DB.Create(&settings).Error; err != nil {
			return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create settings")
		}
	} else if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	return utils.Respond(c, fiber.StatusOK, settings)
}

func (s *UserService) UpdateSettings(c *fiber.Ctx) error {
	var req struct {
		NotificationEnabled *bool   `json:"notification_enabled"`
		LocationSharing     *bool   `json:"location_sharing"`
		PrivacyLevel        *string `json:"privacy_level"`
		Preferences         *string `json:"preferences"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := middleware.CurrentUserID(c)

	var settings models.UserSettings
	err := s.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID}
		if err := s.DB.Create(&settings).Error; err != nil {
			return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create settings")
		}
	} else if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	if req.NotificationEnabled != nil {
		settings.NotificationEnabled = *req.NotificationEnabled
	}
	if req.LocationSharing != nil {
		settings.LocationSharing = *req.LocationSharing
	}
	if req.PrivacyLevel != nil {
		settings.PrivacyLevel = *req.PrivacyLevel
	}
	if req.Preferences != nil {
		settings.Preferences = *req.Preferences
	}

	if err := s.DB.Save(&settings).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	return utils.Respond(c, fiber.StatusOK, settings)
}

// AdjustLevel is the administrative experience adjustment: it changes
// the counter and recomputed level directly, without a ledger entry.
func (s *UserService) AdjustLevel(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req struct {
		ExperiencePoints int `json:"experience_points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	var levelUp bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, targetID).Error; err != nil {
			return err
		}

		oldLevel := user.Level
		user.ExperiencePoints = user.ExperiencePoints + req.ExperiencePoints
		if user.ExperiencePoints < 0 {
			user.ExperiencePoints = 0
		}

		newLevel, err := s.Rewards.levelFor(tx, user.ExperiencePoints)
		if err != nil {
			return err
		}
		user.Level = newLevel
		levelUp = newLevel > oldLevel

		return tx.Save(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.RespondError(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update level")
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"level":             user.Level,
		"experience_points": user.ExperiencePoints,
		"level_up":          levelUp,
	})
}

// ListLevels returns the threshold table for clients to render.
func (s *UserService) ListLevels(c *fiber.Ctx) error {
	var levels []models.UserLevel
	if err := s.DB.Order("level").Find(&levels).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch levels")
	}
	return utils.Respond(c, fiber.StatusOK, levels)
}

// GetRewards lists the user's ledger, newest first.
func (s *UserService) GetRewards(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var rewards []models.Reward
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rewards).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch rewards")
	}
	return utils.Respond(c, fiber.StatusOK, rewards)
}
