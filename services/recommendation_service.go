package services

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/models"
	"likebike-server/utils"
)

// Two non-rejected submissions per user per KST calendar week.
// Rejected ones give the slot back.
const weeklyRecommendationLimit = 2

type RecommendationService struct {
	DB      *gorm.DB
	Rewards *RewardService
	Storage utils.ObjectUploader
}

func NewRecommendationService(db *gorm.DB, rewards *RewardService, storage utils.ObjectUploader) *RecommendationService {
	return &RecommendationService{DB: db, Rewards: rewards, Storage: storage}
}

func (s *RecommendationService) weekCount(userID uint, now time.Time) (int64, error) {
	weekStart, weekEnd := utils.WeekRangeKST(now)
	var count int64
	err := s.DB.Model(&models.CourseRecommendation{}).
		Where("user_id = ? AND status <> ? AND created_at >= ? AND created_at < ?",
			userID, models.VerificationRejected, weekStart, weekEnd).
		Count(&count).Error
	return count, err
}

// Create accepts a multipart course submission with photo proof and
// enforces the weekly cap.
func (s *RecommendationService) Create(c *fiber.Ctx) error {
	locationName := c.FormValue("location_name")
	review := c.FormValue("review")
	if locationName == "" || review == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "location_name and review required")
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "photo required")
	}

	userID := middleware.CurrentUserID(c)

	count, err := s.weekCount(userID, time.Now())
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to check weekly limit")
	}
	if count >= weeklyRecommendationLimit {
		return utils.RespondError(c, fiber.StatusBadRequest, "weekly course recommendation limit reached")
	}

	photoURL, err := s.Storage.Upload(photo, "course_recommendations")
	if err != nil {
		if errors.Is(err, utils.ErrInvalidUpload) {
			return utils.RespondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("course photo upload failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "photo upload failed")
	}

	rec := models.CourseRecommendation{
		UserID:       userID,
		LocationName: locationName,
		PhotoURL:     photoURL,
		Review:       review,
		Status:       models.VerificationPending,
	}
	if err := s.DB.Create(&rec).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create recommendation")
	}

	return utils.Respond(c, fiber.StatusCreated, rec)
}

func (s *RecommendationService) List(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var recs []models.CourseRecommendation
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch recommendations")
	}
	return utils.Respond(c, fiber.StatusOK, recs)
}

// WeekStatus tells the client how many slots this week's cap has left.
// "count" is every submission this week, rejected ones included; only
// the non-rejected ones consume cap slots.
func (s *RecommendationService) WeekStatus(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	now := time.Now()

	capCount, err := s.weekCount(userID, now)
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to check weekly limit")
	}

	weekStart, weekEnd := utils.WeekRangeKST(now)
	var total int64
	if err := s.DB.Model(&models.CourseRecommendation{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, weekStart, weekEnd).
		Count(&total).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to check weekly limit")
	}

	remaining := weeklyRecommendationLimit - int(capCount)
	if remaining < 0 {
		remaining = 0
	}
	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"count":               total,
		"submitted_this_week": capCount,
		"remaining":           remaining,
		"limit":               weeklyRecommendationLimit,
	})
}

// AdminList lists every submission, optionally filtered by status.
func (s *RecommendationService) AdminList(c *fiber.Ctx) error {
	query := s.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var recs []models.CourseRecommendation
	if err := query.Find(&recs).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch recommendations")
	}
	return utils.Respond(c, fiber.StatusOK, recs)
}

// Verify transitions a pending recommendation exactly once and credits
// the admin-supplied points as experience through the ledger.
func (s *RecommendationService) Verify(c *fiber.Ctx) error {
	recID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid recommendation id")
	}

	var req struct {
		Status string `json:"status"`
		Points int    `json:"points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status != models.VerificationVerified && req.Status != models.VerificationRejected {
		return utils.RespondError(c, fiber.StatusBadRequest, "status must be 'verified' or 'rejected'")
	}
	if req.Status == models.VerificationVerified && req.Points <= 0 {
		return utils.RespondError(c, fiber.StatusBadRequest, "points must be greater than 0")
	}

	adminID := middleware.CurrentUserID(c)

	var rec models.CourseRecommendation
	var alreadyProcessed bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, recID).Error; err != nil {
			return err
		}
		if rec.Status != models.VerificationPending {
			alreadyProcessed = true
			return errAlreadyProcessed
		}

		now := time.Now()
		rec.Status = req.Status
		rec.ReviewedByAdminID = &adminID
		rec.ReviewedAt = &now
		if req.Status == models.VerificationVerified {
			rec.PointsAwarded = req.Points
		}
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}

		if req.Status == models.VerificationVerified {
			_, err := s.Rewards.Grant(tx, rec.UserID, models.RewardSourceRecommendation, rec.ID,
				0, req.Points, "course recommendation verified")
			return err
		}
		return nil
	})
	if alreadyProcessed {
		return utils.RespondError(c, fiber.StatusBadRequest, "recommendation already processed")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.RespondError(c, fiber.StatusNotFound, "recommendation not found")
	}
	if err != nil {
		log.Printf("recommendation verification failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to verify recommendation")
	}

	return utils.Respond(c, fiber.StatusOK, rec)
}
