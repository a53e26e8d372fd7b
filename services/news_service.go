package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"likebike-server/models"
	"likebike-server/utils"
)

type NewsService struct {
	DB *gorm.DB
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{DB: db}
}

func (s *NewsService) List(c *fiber.Ctx) error {
	var items []models.News
	if err := s.DB.Order("published_at DESC").Find(&items).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch news")
	}
	return utils.Respond(c, fiber.StatusOK, items)
}

func (s *NewsService) Get(c *fiber.Ctx) error {
	newsID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid news id")
	}

	var item models.News
	if err := s.DB.First(&item, newsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "news not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch news")
	}
	return utils.Respond(c, fiber.StatusOK, item)
}

func (s *NewsService) Create(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || req.Content == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "title and content required")
	}

	item := models.News{
		Title:   req.Title,
		Slug:    slug.Make(req.Title),
		Content: req.Content,
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to create news")
	}
	return utils.Respond(c, fiber.StatusCreated, item)
}

func (s *NewsService) Update(c *fiber.Ctx) error {
	newsID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid news id")
	}

	var item models.News
	if err := s.DB.First(&item, newsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "news not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch news")
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title != nil {
		item.Title = *req.Title
		item.Slug = slug.Make(*req.Title)
	}
	if req.Content != nil {
		item.Content = *req.Content
	}
	if err := s.DB.Save(&item).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to update news")
	}
	return utils.Respond(c, fiber.StatusOK, item)
}

func (s *NewsService) Delete(c *fiber.Ctx) error {
	newsID, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "invalid news id")
	}

	var item models.News
	if err := s.DB.First(&item, newsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "news not found")
		}
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to fetch news")
	}

	if err := s.DB.Delete(&item).Error; err != nil {
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to delete news")
	}
	return utils.Respond(c, fiber.StatusNoContent, nil)
}
