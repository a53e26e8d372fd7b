package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"likebike-server/models"
	"likebike-server/utils"
)

var testTokens = utils.NewTokenIssuer("test-secret")

// newTestDB opens a private in-memory database with the full schema and
// the seeded level table.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.UserLevel{},
		&models.Reward{},
		&models.BikeUsageLog{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.CommunityPost{},
		&models.PostComment{},
		&models.PostLike{},
		&models.SafetyReport{},
		&models.CourseRecommendation{},
		&models.CyclingGoal{},
		&models.News{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, lvl := range models.DefaultUserLevels {
		if err := db.Create(&lvl).Error; err != nil {
			t.Fatalf("failed to seed levels: %v", err)
		}
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) (models.User, string) {
	t.Helper()

	user := models.User{
		KakaoID:  uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Level:    1,
		IsAdmin:  admin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := testTokens.Issue(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return user, token
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func adminRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Admin", "true")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func multipartRequest(t *testing.T, app *fiber.App, path, token string, fields map[string]string, fileField, filename string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte("not really an image")); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("multipart request %s failed: %v", path, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

// firstData unmarshals the first element of the envelope's data array.
func firstData(t *testing.T, env envelope, out interface{}) {
	t.Helper()

	if len(env.Data) == 0 {
		t.Fatalf("expected data in envelope, got none")
	}
	if err := json.Unmarshal(env.Data[0], out); err != nil {
		t.Fatalf("failed to unmarshal envelope data: %v", err)
	}
}

// ledgerBalance sums the user's experience ledger; it must always equal
// the experience_points column.
func ledgerBalance(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var sum int64
	if err := db.Model(&models.Reward{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(experience_points), 0)").
		Scan(&sum).Error; err != nil {
		t.Fatalf("failed to sum ledger: %v", err)
	}
	return int(sum)
}

func reloadUser(t *testing.T, db *gorm.DB, userID uint) models.User {
	t.Helper()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return user
}

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(fh *multipart.FileHeader, folder string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url + "/" + folder + "/" + fh.Filename, nil
}

type stubStore struct {
	stubUploader
	objects map[string]utils.ObjectInfo
}

func (s *stubStore) List(folder string, limit int32) ([]utils.ObjectInfo, error) {
	files := make([]utils.ObjectInfo, 0, len(s.objects))
	for _, info := range s.objects {
		files = append(files, info)
	}
	return files, nil
}

func (s *stubStore) Delete(key string) error {
	if _, ok := s.objects[key]; !ok {
		return utils.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

type stubKakao struct {
	info *KakaoUserInfo
	err  error
}

func (s *stubKakao) FetchUserInfo(accessToken string) (*KakaoUserInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

type stubGenerator struct {
	quiz *GeneratedQuiz
	err  error
}

func (s *stubGenerator) Generate(prompt string) (*GeneratedQuiz, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quiz, nil
}
