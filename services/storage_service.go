package services

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"likebike-server/utils"
)

// ObjectStore is the full storage surface the file-management endpoints
// need; feature services only depend on the upload half.
type ObjectStore interface {
	utils.ObjectUploader
	List(folder string, limit int32) ([]utils.ObjectInfo, error)
	Delete(key string) error
}

type StorageService struct {
	Store ObjectStore
}

func NewStorageService(store ObjectStore) *StorageService {
	return &StorageService{Store: store}
}

// Upload stores a single image and returns its public URL.
func (s *StorageService) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondError(c, fiber.StatusBadRequest, "file required")
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "uploads"
	}

	url, err := s.Store.Upload(file, folder)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidUpload) {
			return utils.RespondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("file upload failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "file upload failed")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"url": url})
}

// ListFiles lists stored objects under a folder, admin only.
func (s *StorageService) ListFiles(c *fiber.Ctx) error {
	folder := c.Query("folder", "uploads")
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	files, err := s.Store.List(folder, int32(limit))
	if err != nil {
		log.Printf("file listing failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to list files")
	}
	return utils.Respond(c, fiber.StatusOK, files)
}

// DeleteFile removes one object by key, admin only. The key comes from
// the wildcard path segment so folder prefixes pass through.
func (s *StorageService) DeleteFile(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return utils.RespondError(c, fiber.StatusBadRequest, "file key required")
	}

	if err := s.Store.Delete(key); err != nil {
		if errors.Is(err, utils.ErrObjectNotFound) {
			return utils.RespondError(c, fiber.StatusNotFound, "file not found")
		}
		log.Printf("file delete failed: %v", err)
		return utils.RespondError(c, fiber.StatusInternalServerError, "failed to delete file")
	}
	return utils.Respond(c, fiber.StatusNoContent, nil)
}
