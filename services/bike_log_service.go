package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/models"
	"likebike-server/utils"
)

type BikeLogService struct {
	DB      *gorm.DB
	Rewards *RewardService
	Storage utils.ObjectUploader
}

func NewBikeLogService(db *gorm.DB, rewards *RewardService, storage utils.ObjectUploader) *BikeLogService {
	return &BikeLogService{DB: db, Rewards: rewards, Storage: storage}
}

type bikeLogResponse struct {
	models.BikeUsageLog
	PointsEarned     int  `json:"points_earned"`
	ExperienceEarned int  `json:"experience_earned"`
	LevelUp          bool `json:"level_up"`
}

// CreateBikeLog records a ride and grants the distance-based reward in
// the same transaction.
func (s *BikeLogService) CreateBikeLog(c *fiber.Ctx) error {
	var req struct {
		Description     string   `json:"description"`
		StartLatitude   *float64 `json:"start_latitude"`
		StartLongitude  *float64 `json:"start_longitude"`
		EndLatitude     *float64 `json:"end_latitude"`
		EndLongitude    *float64 `json:"end_longitude"`
		Distance        float64  `json:"distance"`
		DurationMinutes int      `json:"duration_minutes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Description == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "description required")
	}
	if req.Distance < 0 {
		return utils.RespondError(c, fiber.StatusBadRequest, "distance must not be negative")
	}

	userID := middleware.CurrentUserID(c)

	logRow := models.BikeUsageLog{
		UserID:          userID,
		LogType:         models.BikeLogRide,
		Description:     req.Description,
		StartLatitude:   req.StartLatitude,
		StartLongitude:  req.StartLongitude,
		EndLatitude:     req.EndLatitude,
		EndLongitude:    req.EndLongitude,
		Distance:        req.Distance,
		DurationMinutes: req.DurationMinutes,
	}

	reward := RideReward(req.Distance)
	var grant *GrantResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logRow).Error; err != nil {
			return err
		}
		var err error
		grant, err = s.Rewards.Grant(tx, userID, models.RewardSourceBikeLog, logRow.ID,
			reward, reward, "ride logged")
		return err
	})
	if err != nil {
		log.Printf("bike log create failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create bike log")
	}

	return utils.Respond(c, fiber.StatusCreated, bikeLogResponse{
		BikeUsageLog:     logRow,
		PointsEarned:     grant.Points,
		ExperienceEarned: grant.Experience,
		LevelUp:          grant.LevelUp,
	})
}

func (s *BikeLogService) ListBikeLogs(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var logs []models.BikeUsageLog
	if err := s.DB.Where("user_id = ?", userID).
		Order("usage_time DESC").
		Find(&logs).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch bike logs")
	}
	return utils.Respond(c, fiber.StatusOK, logs)
}

// ownedLog fetches a log, reporting a missing row before an ownership
// mismatch so 403 never leaks existence.
func (s *BikeLogService) ownedLog(c *fiber.Ctx, logID int) (*models.BikeUsageLog, error) {
	var row models.BikeUsageLog
	if err := s.DB.First(&row, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.RespondError(c, fiber.StatusNotFound, "log not found")
		}
		return nil, utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch bike log")
	}
	if row.UserID != middleware.CurrentUserID(c) {
		return nil, utils.RespondError(c, fiber.StatusForbidden, "not your bike log")
	}
	return &row, nil
}

func (s *BikeLogService) UpdateBikeLog(c *fiber.Ctx) error {
	logID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid log id")
	}

	var req struct {
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil || req.Description == nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "description required")
	}

	row, respErr := s.ownedLog(c, logID)
	if row == nil {
		return respErr
	}

	row.Description = *req.Description
	if err := s.DB.Save(row).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update bike log")
	}
	return utils.Respond(c, fiber.StatusOK, row)
}

func (s *BikeLogService) DeleteBikeLog(c *fiber.Ctx) error {
	logID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid log id")
	}

	row, respErr := s.ownedLog(c, logID)
	if row == nil {
		return respErr
	}

	if err := s.DB.Delete(row).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to delete bike log")
	}
	return utils.Respond(c, fiber.StatusNoContent, nil)
}

// SubmitActivity creates an activity-verification submission with photo
// proof. One submission per user per KST calendar day; the reward comes
// later, when an admin verifies it.
func (s *BikeLogService) SubmitActivity(c *fiber.Ctx) error {
	description := c.FormValue("description")
	if description == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "description required")
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "photo required")
	}

	userID := middleware.CurrentUserID(c)

	dayStart, dayEnd := utils.DayRangeKST(time.Now())
	var count int64
	if err := s.DB.Model(&models.BikeUsageLog{}).
		Where("user_id = ? AND log_type = ? AND created_at >= ? AND created_at < ?",
			userID, models.BikeLogActivity, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to check daily limit")
	}
	if count >= 1 {
		return utils.RespondError(c, fiber.StatusBadRequest, "daily activity verification limit reached")
	}

	photoURL, err := s.Storage.Upload(photo, "bike_activities")
	if err != nil {
		if errors.Is(err, utils.ErrInvalidUpload) {
			return utils.RespondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("activity photo upload failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "photo upload failed")
	}

	row := models.BikeUsageLog{
		UserID:             userID,
		LogType:            models.BikeLogActivity,
		Description:        description,
		PhotoURL:           photoURL,
		VerificationStatus: models.VerificationPending,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create submission")
	}

	return utils.Respond(c, fiber.StatusCreated, row)
}

// AdminListBikeLogs lists all logs, optionally filtered by verification
// status.
func (s *BikeLogService) AdminListBikeLogs(c *fiber.Ctx) error {
	query := s.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("verification_status = ?", status)
	}

	var logs []models.BikeUsageLog
	if err := query.Find(&logs).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch bike logs")
	}
	return utils.Respond(c, fiber.StatusOK, logs)
}

// VerifyBikeLog transitions a pending log exactly once. Verification
// credits the admin-supplied points as experience through the ledger.
func (s *BikeLogService) VerifyBikeLog(c *fiber.Ctx) error {
	logID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid log id")
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

	var row models.BikeUsageLog
	var alreadyProcessed bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, logID).Error; err != nil {
			return err
		}
		if row.VerificationStatus != models.VerificationPending {
			alreadyProcessed = true
			return errAlreadyProcessed
		}

		now := time.Now()
		row.VerificationStatus = req.Status
		row.VerifiedByAdminID = &adminID
		row.VerifiedAt = &now
		if req.Status == models.VerificationVerified {
			row.PointsAwarded = req.Points
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		if req.Status == models.VerificationVerified {
			_, err := s.Rewards.Grant(tx, row.UserID, models.RewardSourceBikeUsage, row.ID,
				0, req.Points, "bike activity verified")
			return err
		}
		return nil
	})
	if alreadyProcessed {
		return utils.RespondError(c, fiber.StatusBadRequest, "bike log already processed")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.RespondError(c, fiber.StatusNotFound, "log not found")
	}
	if err != nil {
		log.Printf("bike log verification failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to verify bike log")
	}

	return utils.Respond(c, fiber.StatusOK, row)
}

// Stats aggregates the user's rides and reports progress toward each
// active cycling goal.
func (s *BikeLogService) Stats(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var agg struct {
		TotalRides    int64
		TotalDistance float64
		TotalDuration int64
	}
	err := s.DB.Model(&models.BikeUsageLog{}).
		Where("user_id = ? AND log_type = ?", userID, models.BikeLogRide).
		Select("COUNT(*) AS total_rides, COALESCE(SUM(distance), 0) AS total_distance, COALESCE(SUM(duration_minutes), 0) AS total_duration").
		Scan(&agg).Error
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}

	var goals []models.CyclingGoal
	if err := s.DB.Where("user_id = ? AND status = ?", userID, models.GoalActive).
		Find(&goals).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch goals")
	}

	progress := make([]fiber.Map, 0, len(goals))
	for _, g := range goals {
		var current float64
		switch g.GoalType {
		case models.GoalDistance:
			current = agg.TotalDistance
		case models.GoalRides:
			current = float64(agg.TotalRides)
		case models.GoalDuration:
			current = float64(agg.TotalDuration)
		}

		pct := 0.0
		if g.TargetValue > 0 {
			pct = current / g.TargetValue * 100
			if pct > 100 {
				pct = 100
			}
		}

		progress = append(progress, fiber.Map{
			"goal_id":          g.ID,
			"goal_type":        g.GoalType,
			"target_value":     g.TargetValue,
			"current_value":    current,
			"progress_percent": pct,
		})
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"total_rides":    agg.TotalRides,
		"total_distance": agg.TotalDistance,
		"total_duration": agg.TotalDuration,
		"goals_progress": progress,
	})
}

var errAlreadyProcessed = fmt.Errorf("already processed")
