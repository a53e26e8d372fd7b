package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"likebike-server/middleware"
	"likebike-server/models"
)

func newUserApp(db *gorm.DB, kakao KakaoUserFetcher) *fiber.App {
	app := fiber.New()
	svc := NewUserService(db, kakao, testTokens, NewRewardService(db))

	app.Post("/users", svc.Register)
	app.Post("/users/token/refresh", svc.RefreshToken)
	app.Get("/levels", svc.ListLevels)

	secured := app.Group("/users", middleware.RequireAuth(testTokens))
	secured.Get("/profile", svc.GetProfile)
	secured.Put("/", svc.UpdateUser)
	secured.Delete("/", svc.DeleteUser)
	secured.Get("/settings", svc.GetSettings)
	secured.Put("/settings", svc.UpdateSettings)
	secured.Get("/rewards", svc.GetRewards)

	admin := app.Group("/admin/users", middleware.RequireAdmin(testTokens))
	admin.Put("/:id/level", svc.AdjustLevel)

	return app
}

func TestRegisterCreatesUserAndSettings(t *testing.T) {
	db := newTestDB(t)
	kakao := &stubKakao{info: &KakaoUserInfo{
		ID: 12345, Nickname: "철수", Email: "chulsoo@example.com",
	}}
	app := newUserApp(db, kakao)

	resp := request(t, app, http.MethodPost, "/users", "", fiber.Map{"access_token": "valid"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	firstData(t, decodeEnvelope(t, resp), &created)
	if created.Username != "철수" || created.Token == "" {
		t.Errorf("created = %+v, want nickname and a token", created)
	}

	var settings models.UserSettings
	if err := db.Where("user_id = ?", created.ID).First(&settings).Error; err != nil {
		t.Fatalf("expected settings row: %v", err)
	}
	if !settings.NotificationEnabled {
		t.Error("notification_enabled should default to true")
	}

	// Registering again with the same Kakao account reuses the user.
	resp = request(t, app, http.MethodPost, "/users", "", fiber.Map{"access_token": "valid"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("repeat register: status = %d, want 201", resp.StatusCode)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestRegisterRejectsBadKakaoToken(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{err: fmt.Errorf("kakao user info returned 401")})

	resp := request(t, app, http.MethodPost, "/users", "", fiber.Map{"access_token": "garbage"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	firstData(t, decodeEnvelope(t, resp), &body)
	if body.Error != "invalid kakao token" {
		t.Errorf("error = %q, want sanitized message", body.Error)
	}
}

func TestGetProfileIncludesLevelMetadata(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, token := createTestUser(t, db, "rider", false)

	db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"experience_points": 150, "level": 2})

	resp := request(t, app, http.MethodGet, "/users/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var profile struct {
		Level     int    `json:"level"`
		LevelName string `json:"level_name"`
	}
	firstData(t, decodeEnvelope(t, resp), &profile)
	if profile.Level != 2 || profile.LevelName != "Commuter" {
		t.Errorf("profile = %+v, want level 2 Commuter", profile)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, token := createTestUser(t, db, "rider", false)

	resp := request(t, app, http.MethodPut, "/users", token, fiber.Map{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty update: status = %d, want 400", resp.StatusCode)
	}

	resp = request(t, app, http.MethodPut, "/users", token, fiber.Map{"username": "renamed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := reloadUser(t, db, user.ID)
	if got.Username != "renamed" {
		t.Errorf("username = %q, want renamed", got.Username)
	}
	if got.Email != user.Email {
		t.Errorf("email changed to %q, want untouched", got.Email)
	}
}

func TestDeleteUserIsHard(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, token := createTestUser(t, db, "leaver", false)

	resp := request(t, app, http.MethodDelete, "/users", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	var count int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("user rows (unscoped) = %d, want 0", count)
	}
}

func TestSettingsAutoCreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	_, token := createTestUser(t, db, "rider", false)

	resp := request(t, app, http.MethodGet, "/users/settings", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", resp.StatusCode)
	}
	var settings models.UserSettings
	firstData(t, decodeEnvelope(t, resp), &settings)
	if !settings.NotificationEnabled || settings.PrivacyLevel != "public" {
		t.Errorf("defaults = %+v, want notifications on, public privacy", settings)
	}

	resp = request(t, app, http.MethodPut, "/users/settings", token, fiber.Map{
		"notification_enabled": false,
		"privacy_level":        "private",
	})
	firstData(t, decodeEnvelope(t, resp), &settings)
	if settings.NotificationEnabled || settings.PrivacyLevel != "private" {
		t.Errorf("updated = %+v, want notifications off, private", settings)
	}
}

func TestRefreshToken(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, token := createTestUser(t, db, "rider", false)

	resp := request(t, app, http.MethodPost, "/users/token/refresh", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	firstData(t, decodeEnvelope(t, resp), &body)
	claims, err := testTokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user = %d, want %d", claims.UserID, user.ID)
	}

	resp = request(t, app, http.MethodPost, "/users/token/refresh", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", resp.StatusCode)
	}
}

func TestAdjustLevelSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, _ := createTestUser(t, db, "rider", false)
	_, adminToken := createTestUser(t, db, "admin", true)

	path := fmt.Sprintf("/admin/users/%d/level", user.ID)
	resp := adminRequest(t, app, http.MethodPut, path, adminToken, fiber.Map{"experience_points": 350})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Level   int  `json:"level"`
		LevelUp bool `json:"level_up"`
	}
	firstData(t, decodeEnvelope(t, resp), &body)
	if body.Level != 3 || !body.LevelUp {
		t.Errorf("adjust = %+v, want level 3 with level up", body)
	}

	// Administrative adjustments bypass the reward ledger.
	if balance := ledgerBalance(t, db, user.ID); balance != 0 {
		t.Errorf("ledger balance = %d, want 0", balance)
	}

	// Negative adjustments clamp at zero.
	resp = adminRequest(t, app, http.MethodPut, path, adminToken, fiber.Map{"experience_points": -9999})
	firstData(t, decodeEnvelope(t, resp), &body)
	if body.Level != 1 {
		t.Errorf("after clamp: level = %d, want 1", body.Level)
	}
	if got := reloadUser(t, db, user.ID); got.ExperiencePoints != 0 {
		t.Errorf("experience = %d, want 0", got.ExperiencePoints)
	}
}

func TestListLevelsIsPublic(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})

	resp := request(t, app, http.MethodGet, "/levels", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); len(env.Data) != len(models.DefaultUserLevels) {
		t.Errorf("levels = %d, want %d", len(env.Data), len(models.DefaultUserLevels))
	}
}

func TestGetRewardsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	app := newUserApp(db, &stubKakao{})
	user, token := createTestUser(t, db, "rider", false)
	rewards := NewRewardService(db)

	rewards.Grant(db, user.ID, models.RewardSourceBikeLog, 1, 5, 5, "first")
	rewards.Grant(db, user.ID, models.RewardSourceQuiz, 1, 10, 10, "second")

	resp := request(t, app, http.MethodGet, "/users/rewards", token, nil)
	env := decodeEnvelope(t, resp)
	if len(env.Data) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(env.Data))
	}
}
