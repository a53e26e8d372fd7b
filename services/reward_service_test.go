package services

import (
	"testing"

	"likebike-server/models"
)

func TestRideReward(t *testing.T) {
	cases := []struct {
		distance float64
		want     int
	}{
		{0, 5},
		{0.9, 5},
		{1, 7},
		{5.2, 15},
		{10, 25},
	}
	for _, tc := range cases {
		if got := RideReward(tc.distance); got != tc.want {
			t.Errorf("RideReward(%v) = %d, want %d", tc.distance, got, tc.want)
		}
	}
}

func TestGrantKeepsLedgerInBalance(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	user, _ := createTestUser(t, db, "rider", false)

	grants := []struct {
		points, exp int
	}{
		{5, 5},
		{10, 10},
		{2, 1},
	}
	for _, g := range grants {
		if _, err := rewards.Grant(db, user.ID, models.RewardSourceBikeLog, 1, g.points, g.exp, "test grant"); err != nil {
			t.Fatalf("grant failed: %v", err)
		}
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 17 {
		t.Errorf("points = %d, want 17", got.Points)
	}
	if got.ExperiencePoints != 16 {
		t.Errorf("experience = %d, want 16", got.ExperiencePoints)
	}
	if balance := ledgerBalance(t, db, user.ID); balance != got.ExperiencePoints {
		t.Errorf("ledger sum %d != user experience %d", balance, got.ExperiencePoints)
	}
}

func TestGrantClampsCountersAtZero(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	user, _ := createTestUser(t, db, "rider", false)

	if _, err := rewards.Grant(db, user.ID, models.RewardSourceBikeLog, 1, -50, -50, "penalty"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 0 || got.ExperiencePoints != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", got.Points, got.ExperiencePoints)
	}
	if got.Level != 1 {
		t.Errorf("level = %d, want 1", got.Level)
	}
}

func TestGrantRecomputesLevel(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	user, _ := createTestUser(t, db, "rider", false)

	res, err := rewards.Grant(db, user.ID, models.RewardSourceBikeUsage, 1, 0, 99, "almost there")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if res.LevelUp || res.Level != 1 {
		t.Errorf("99 exp: level=%d levelUp=%v, want level 1, no level up", res.Level, res.LevelUp)
	}

	res, err = rewards.Grant(db, user.ID, models.RewardSourceBikeUsage, 2, 0, 1, "threshold")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if !res.LevelUp || res.Level != 2 {
		t.Errorf("100 exp: level=%d levelUp=%v, want level 2 with level up", res.Level, res.LevelUp)
	}

	res, err = rewards.Grant(db, user.ID, models.RewardSourceBikeUsage, 3, 0, 900, "big grant")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if res.Level != 5 {
		t.Errorf("1000 exp: level = %d, want 5", res.Level)
	}
}

func TestGrantDefaultsToLevelOneWithoutThresholds(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	user, _ := createTestUser(t, db, "rider", false)

	// With no threshold rows at all, the lookup misses and the level
	// falls back to 1 instead of erroring.
	if err := db.Where("1 = 1").Delete(&models.UserLevel{}).Error; err != nil {
		t.Fatalf("failed to clear level table: %v", err)
	}

	res, err := rewards.Grant(db, user.ID, models.RewardSourceBikeLog, 1, 5, 5, "ride")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if res.Level != 1 || res.LevelUp {
		t.Errorf("level = %d levelUp = %v, want level 1, no level up", res.Level, res.LevelUp)
	}
}

func TestHasCorrectAttempt(t *testing.T) {
	db := newTestDB(t)
	rewards := NewRewardService(db)
	user, _ := createTestUser(t, db, "solver", false)

	quiz := models.Quiz{Question: "q", CorrectAnswer: "a"}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}

	solved, err := rewards.HasCorrectAttempt(db, user.ID, quiz.ID)
	if err != nil || solved {
		t.Fatalf("expected no correct attempt yet, got solved=%v err=%v", solved, err)
	}

	db.Create(&models.QuizAttempt{UserID: user.ID, QuizID: quiz.ID, GivenAnswer: "b", IsCorrect: false})
	solved, _ = rewards.HasCorrectAttempt(db, user.ID, quiz.ID)
	if solved {
		t.Error("wrong attempt should not count as solved")
	}

	db.Create(&models.QuizAttempt{UserID: user.ID, QuizID: quiz.ID, GivenAnswer: "a", IsCorrect: true})
	solved, _ = rewards.HasCorrectAttempt(db, user.ID, quiz.ID)
	if !solved {
		t.Error("correct attempt should count as solved")
	}
}
