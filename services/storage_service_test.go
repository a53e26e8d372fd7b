package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/utils"
)

func newStorageApp(db *gorm.DB, store ObjectStore) *fiber.App {
	app := fiber.New()
	svc := NewStorageService(store)

	app.Post("/upload", middleware.RequireAuth(testTokens), svc.Upload)

	admin := app.Group("/files", middleware.RequireAdmin(testTokens))
	admin.Get("/", svc.ListFiles)
	admin.Delete("/*", svc.DeleteFile)

	return app
}

func TestUploadReturnsURL(t *testing.T) {
	db := newTestDB(t)
	store := &stubStore{stubUploader: stubUploader{url: "https://storage.test"}}
	app := newStorageApp(db, store)
	_, token := createTestUser(t, db, "uploader", false)

	resp := multipartRequest(t, app, "/upload", token,
		map[string]string{"folder": "community"}, "file", "snapshot.png")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	firstData(t, decodeEnvelope(t, resp), &body)
	if body.URL != "https://storage.test/community/snapshot.png" {
		t.Errorf("url = %q, want stub upload path", body.URL)
	}
}

func TestUploadRejectsInvalidFile(t *testing.T) {
	db := newTestDB(t)
	store := &stubStore{stubUploader: stubUploader{err: utils.ErrInvalidUpload}}
	app := newStorageApp(db, store)
	_, token := createTestUser(t, db, "uploader", false)

	resp := multipartRequest(t, app, "/upload", token, nil, "file", "malware.exe")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	app := newStorageApp(db, &stubStore{})

	resp := multipartRequest(t, app, "/upload", "", nil, "file", "snapshot.png")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestDeleteFile(t *testing.T) {
	db := newTestDB(t)
	store := &stubStore{objects: map[string]utils.ObjectInfo{
		"community/snapshot.png": {Key: "community/snapshot.png", Size: 42, LastModified: time.Now()},
	}}
	app := newStorageApp(db, store)
	_, adminToken := createTestUser(t, db, "admin", true)

	resp := adminRequest(t, app, http.MethodDelete, "/files/community/snapshot.png", adminToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if _, ok := store.objects["community/snapshot.png"]; ok {
		t.Error("object should have been deleted")
	}

	resp = adminRequest(t, app, http.MethodDelete, "/files/community/snapshot.png", adminToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("repeat delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestListFilesIsAdminOnly(t *testing.T) {
	db := newTestDB(t)
	store := &stubStore{objects: map[string]utils.ObjectInfo{
		"uploads/a.png": {Key: "uploads/a.png"},
	}}
	app := newStorageApp(db, store)
	_, userToken := createTestUser(t, db, "user", false)
	_, adminToken := createTestUser(t, db, "admin", true)

	resp := request(t, app, http.MethodGet, "/files", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", resp.StatusCode)
	}

	resp = adminRequest(t, app, http.MethodGet, "/files", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); len(env.Data) != 1 {
		t.Errorf("files = %d, want 1", len(env.Data))
	}
}
