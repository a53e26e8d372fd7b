package services

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/models"
	"likebike-server/utils"
)

type CommunityService struct {
	DB      *gorm.DB
	Rewards *RewardService
}

func NewCommunityService(db *gorm.DB, rewards *RewardService) *CommunityService {
	return &CommunityService{DB: db, Rewards: rewards}
}

func postView(p models.CommunityPost) fiber.Map {
	view := fiber.Map{
		"id":             p.ID,
		"user_id":        p.UserID,
		"title":          p.Title,
		"content":        p.Content,
		"post_type":      p.PostType,
		"status":         p.Status,
		"likes_count":    p.LikesCount,
		"comments_count": p.CommentsCount,
		"created_at":     p.CreatedAt,
	}
	if p.User != nil {
		view["username"] = p.User.Username
		view["level"] = p.User.Level
	}
	return view
}

// ListPosts is public: active posts, optional type filter, paginated.
func (s *CommunityService) ListPosts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.DB.Preload("User").
		Where("status = ?", "active").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit)
	if postType := c.Query("type"); postType != "" {
		query = query.Where("post_type = ?", postType)
	}

	var posts []models.CommunityPost
	if err := query.Find(&posts).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch posts")
	}

	views := make([]fiber.Map, len(posts))
	for i, p := range posts {
		views[i] = postView(p)
	}
	return utils.Respond(c, fiber.StatusOK, views)
}

// CreatePost stores the post and grants the posting reward in one
// transaction.
func (s *CommunityService) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		PostType string `json:"post_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || req.Content == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "title and content required")
	}
	if req.PostType == "" {
		req.PostType = "general"
	}

	userID := middleware.CurrentUserID(c)

	post := models.CommunityPost{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		PostType: req.PostType,
	}

	var grant *GrantResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		var err error
		grant, err = s.Rewards.Grant(tx, userID, models.RewardSourceCommunityPost, post.ID,
			PostPoints, PostExperience, "community post created")
		return err
	})
	if err != nil {
		log.Printf("post create failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create post")
	}

	view := postView(post)
	view["points_earned"] = grant.Points
	view["experience_earned"] = grant.Experience
	return utils.Respond(c, fiber.StatusCreated, view)
}

// GetPost is public and includes the post's comments in thread order.
func (s *CommunityService) GetPost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	var post models.CommunityPost
	if err := s.DB.Preload("User").
		Where("id = ? AND status = ?", postID, "active").
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch post")
	}

	var comments []models.PostComment
	if err := s.DB.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch comments")
	}

	commentViews := make([]fiber.Map, len(comments))
	for i, cm := range comments {
		cv := fiber.Map{
			"id":                cm.ID,
			"post_id":           cm.PostID,
			"user_id":           cm.UserID,
			"content":           cm.Content,
			"parent_comment_id": cm.ParentCommentID,
			"created_at":        cm.CreatedAt,
		}
		if cm.User != nil {
			cv["username"] = cm.User.Username
			cv["level"] = cm.User.Level
		}
		commentViews[i] = cv
	}

	view := postView(post)
	view["comments"] = commentViews
	return utils.Respond(c, fiber.StatusOK, view)
}

// CreateComment appends a comment, bumps the post's counter, and grants
// the comment reward, all in one transaction.
func (s *CommunityService) CreateComment(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "content required")
	}

	userID := middleware.CurrentUserID(c)

	var post models.CommunityPost
	if err := s.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch post")
	}

	comment := models.PostComment{
		PostID:          post.ID,
		UserID:          userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CommunityPost{}).
			Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}
		_, err := s.Rewards.Grant(tx, userID, models.RewardSourceComment, comment.ID,
			CommentPoints, CommentExperience, "comment created")
		return err
	})
	if err != nil {
		log.Printf("comment create failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create comment")
	}

	return utils.Respond(c, fiber.StatusCreated, comment)
}

// ToggleLike flips the (user, post) like. Like then unlike leaves the
// counter where it started.
func (s *CommunityService) ToggleLike(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	userID := middleware.CurrentUserID(c)

	var post models.CommunityPost
	if err := s.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch post")
	}

	var liked bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return tx.Model(&models.CommunityPost{}).
				Where("id = ?", post.ID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.PostLike{PostID: post.ID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&models.CommunityPost{}).
				Where("id = ?", post.ID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		log.Printf("like toggle failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to toggle like")
	}

	var likesCount int
	s.DB.Model(&models.CommunityPost{}).
		Where("id = ?", post.ID).
		Pluck("likes_count", &likesCount)

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"liked":       liked,
		"likes_count": likesCount,
	})
}

func (s *CommunityService) ListSafetyReports(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var reports []models.SafetyReport
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch safety reports")
	}
	return utils.Respond(c, fiber.StatusOK, reports)
}

func (s *CommunityService) CreateSafetyReport(c *fiber.Ctx) error {
	var req struct {
		ReportType  string   `json:"report_type"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Description string   `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.ReportType == "" || req.Description == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "report_type and description required")
	}

	report := models.SafetyReport{
		UserID:      middleware.CurrentUserID(c),
		ReportType:  req.ReportType,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	}
	if err := s.DB.Create(&report).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create safety report")
	}
	return utils.Respond(c, fiber.StatusCreated, report)
}

func (s *CommunityService) ListCyclingGoals(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var goals []models.CyclingGoal
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch cycling goals")
	}
	return utils.Respond(c, fiber.StatusOK, goals)
}

func (s *CommunityService) CreateCyclingGoal(c *fiber.Ctx) error {
	var req struct {
		GoalType    models.GoalType `json:"goal_type"`
		TargetValue float64         `json:"target_value"`
		PeriodType  string          `json:"period_type"`
		StartDate   string          `json:"start_date"`
		EndDate     string          `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.GoalType == "" || req.TargetValue <= 0 || req.StartDate == "" || req.EndDate == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "goal_type, target_value, start_date, end_date required")
	}
	switch req.GoalType {
	case models.GoalDistance, models.GoalRides, models.GoalDuration:
	default:
		return utils.RespondError(c, fiber.StatusBadRequest, "goal_type must be 'distance', 'rides' or 'duration'")
	}
	if req.PeriodType == "" {
		req.PeriodType = "monthly"
	}

	goal := models.CyclingGoal{
		UserID:      middleware.CurrentUserID(c),
		GoalType:    req.GoalType,
		TargetValue: req.TargetValue,
		PeriodType:  req.PeriodType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.GoalActive,
	}
	if err := s.DB.Create(&goal).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create cycling goal")
	}
	return utils.Respond(c, fiber.StatusCreated, goal)
}
