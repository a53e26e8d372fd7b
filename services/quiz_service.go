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

type QuizService struct {
	DB        *gorm.DB
	Rewards   *RewardService
	Generator QuizGenerator
}

func NewQuizService(db *gorm.DB, rewards *RewardService, generator QuizGenerator) *QuizService {
	return &QuizService{DB: db, Rewards: rewards, Generator: generator}
}

func (s *QuizService) CreateQuiz(c *fiber.Ctx) error {
	var req struct {
		Question      string   `json:"question"`
		CorrectAnswer string   `json:"correct_answer"`
		Answers       []string `json:"answers"`
		HintLink      string   `json:"hint_link"`
		Explanation   string   `json:"explanation"`
		DisplayDate   *string  `json:"display_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Question == "" || req.CorrectAnswer == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "question and correct_answer required")
	}

	quiz := models.Quiz{
		Question:      req.Question,
		CorrectAnswer: req.CorrectAnswer,
		Answers:       req.Answers,
		HintLink:      req.HintLink,
		Explanation:   req.Explanation,
		DisplayDate:   req.DisplayDate,
	}
	if err := s.DB.Create(&quiz).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create quiz")
	}

	return utils.Respond(c, fiber.StatusCreated, quiz)
}

func (s *QuizService) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	var quiz models.Quiz
	if err := s.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "quiz not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch quiz")
	}

	var req struct {
		Question      *string  `json:"question"`
		CorrectAnswer *string  `json:"correct_answer"`
		Answers       []string `json:"answers"`
		HintLink      *string  `json:"hint_link"`
		Explanation   *string  `json:"explanation"`
		DisplayDate   *string  `json:"display_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Question != nil {
		quiz.Question = *req.Question
	}
	if req.CorrectAnswer != nil {
		quiz.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Answers != nil {
		quiz.Answers = req.Answers
	}
	if req.HintLink != nil {
		quiz.HintLink = *req.HintLink
	}
	if req.Explanation != nil {
		quiz.Explanation = *req.Explanation
	}
	if req.DisplayDate != nil {
		quiz.DisplayDate = req.DisplayDate
	}

	if err := s.DB.Save(&quiz).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update quiz")
	}
	return utils.Respond(c, fiber.StatusOK, quiz)
}

func (s *QuizService) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	var quiz models.Quiz
	if err := s.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "quiz not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch quiz")
	}

	if err := s.DB.Delete(&quiz).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to delete quiz")
	}
	return utils.Respond(c, fiber.StatusNoContent, nil)
}

// quizView is the player-facing projection: it never carries the
// canonical answer or the explanation.
func quizView(q models.Quiz) fiber.Map {
	return fiber.Map{
		"id":           q.ID,
		"question":     q.Question,
		"answers":      q.Answers,
		"hint_link":    q.HintLink,
		"display_date": q.DisplayDate,
		"created_at":   q.CreatedAt,
	}
}

func (s *QuizService) ListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := s.DB.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch quizzes")
	}

	views := make([]fiber.Map, len(quizzes))
	for i, q := range quizzes {
		views[i] = quizView(q)
	}
	return utils.Respond(c, fiber.StatusOK, views)
}

// Attempt records the answer and grants the quiz reward only if no
// prior attempt by this user on this quiz was correct. Correctness is
// exact string equality with the canonical answer.
func (s *QuizService) Attempt(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	var req struct {
		Answer *string `json:"answer"`
	}
	if err := c.BodyParser(&req); err != nil || req.Answer == nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "answer required")
	}

	userID := middleware.CurrentUserID(c)

	var quiz models.Quiz
	if err := s.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "quiz not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch quiz")
	}

	isCorrect := *req.Answer == quiz.CorrectAnswer

	var grant *GrantResult
	rewardGiven := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		alreadySolved, err := s.Rewards.HasCorrectAttempt(tx, userID, quiz.ID)
		if err != nil {
			return err
		}

		attempt := models.QuizAttempt{
			UserID:      userID,
			QuizID:      quiz.ID,
			GivenAnswer: *req.Answer,
			IsCorrect:   isCorrect,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if isCorrect && !alreadySolved {
			grant, err = s.Rewards.Grant(tx, userID, models.RewardSourceQuiz, quiz.ID,
				QuizPoints, QuizExperience, "quiz answered correctly")
			if err != nil {
				return err
			}
			rewardGiven = true
		}
		return nil
	})
	if err != nil {
		log.Printf("quiz attempt failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to record attempt")
	}

	resp := fiber.Map{
		"is_correct":   isCorrect,
		"reward_given": rewardGiven,
	}
	if grant != nil {
		resp["points_earned"] = grant.Points
		resp["experience_earned"] = grant.Experience
		resp["level_up"] = grant.LevelUp
	}
	return utils.Respond(c, fiber.StatusOK, resp)
}

// TodayStatus reports whether the user has attempted (and solved)
// today's quiz, by KST date.
func (s *QuizService) TodayStatus(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	today := utils.TodayKST(time.Now())

	var quiz models.Quiz
	err := s.DB.Where("display_date = ?", today).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Respond(c, fiber.StatusOK, fiber.Map{
			"attempted":  false,
			"is_correct": false,
		})
	}
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch today's quiz")
	}

	var attempts int64
	if err := s.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
		Count(&attempts).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch attempts")
	}

	solved, err := s.Rewards.HasCorrectAttempt(s.DB, userID, quiz.ID)
	if err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch attempts")
	}

	return utils.Respond(c, fiber.StatusOK, fiber.Map{
		"quiz_id":    quiz.ID,
		"attempted":  attempts > 0,
		"is_correct": solved,
	})
}

// GenerateQuiz drafts a quiz via Clova and stores it. Upstream failures
// surface as a generic 502.
func (s *QuizService) GenerateQuiz(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err != nil || req.Prompt == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "prompt required")
	}

	generated, err := s.Generator.Generate(req.Prompt)
	if err != nil {
		log.Printf("quiz generation failed: %v", err)
		return utils.RespondError(c, fiber.StatusBadGateway, "quiz generation failed")
	}

	quiz := models.Quiz{
		Question:      generated.Question,
		CorrectAnswer: generated.CorrectAnswer,
		Answers:       generated.Answers,
		HintLink:      generated.HintLink,
		Explanation:   generated.Explanation,
	}
	if quiz.Answers == nil {
		quiz.Answers = []string{}
	}
	if err := s.DB.Create(&quiz).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to save quiz")
	}

	return utils.Respond(c, fiber.StatusCreated, quiz)
}
