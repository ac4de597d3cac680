// internal/workers/profile/update-style-profile/handler_test.go
package updatestyleprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"stylist-workers/internal/common/config"
	"stylist-workers/internal/common/database"
	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/profile"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:         time.Second,
		CreateIfMissing: false,
	}
}

func createTestStore(t *testing.T) profile.Store {
	t.Helper()

	client, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Migrate())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return profile.NewCachedStore(profile.NewSQLStore(client.DB), rdb, time.Minute, logger.NewTestLogger(t))
}

func createTestHandler(t *testing.T, store profile.Store) *Handler {
	return NewHandler(createTestConfig(), store, logger.NewTestLogger(t))
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func yes() *bool {
	v := true
	return &v
}

type failingStore struct{}

func (failingStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return nil, profile.ErrStoreFailed
}

func (failingStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (bool, error) {
	return false, errors.Join(profile.ErrStoreFailed, errors.New("connection reset"))
}

func (failingStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return profile.ErrStoreFailed
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_UpdatesExistingProfile(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveProfile(ctx, &models.UserProfile{UserID: "u-1", Gender: "male", Height: f64(175)}))

	// Warm the cache so a stale read would show up.
	_, err := store.GetProfile(ctx, "u-1")
	require.NoError(t, err)

	h := createTestHandler(t, store)
	output, err := h.Execute(ctx, &Input{
		UserID: "u-1",
		Update: models.ProfileUpdate{Weight: f64(85), SkinTone: str("brown")},
	})

	require.NoError(t, err)
	assert.True(t, output.Updated)
	assert.False(t, output.Created)
	require.NotNil(t, output.Profile)
	assert.Equal(t, 85.0, *output.Profile.Weight)
	assert.Equal(t, "brown", output.Profile.SkinTone)
	assert.Equal(t, profile.SkinDusky, output.Normalized.SkinTone)
	assert.Equal(t, profile.BodyHeavy, output.Normalized.BodyType)
	assert.Equal(t, profile.HeightAverage, output.Normalized.HeightBucket)
}

func TestHandler_Execute_CreatesWhenMissing(t *testing.T) {
	h := createTestHandler(t, createTestStore(t))

	output, err := h.Execute(context.Background(), &Input{
		UserID:          "u-new",
		Update:          models.ProfileUpdate{Gender: str(" Female "), BodyType: str("athletic")},
		CreateIfMissing: yes(),
	})

	require.NoError(t, err)
	assert.False(t, output.Updated)
	assert.True(t, output.Created)
	assert.Equal(t, "female", output.Profile.Gender)
	assert.Equal(t, profile.BodyAverage, output.Normalized.BodyType)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_MissingProfile(t *testing.T) {
	h := createTestHandler(t, createTestStore(t))

	_, err := h.Execute(context.Background(), &Input{
		UserID: "ghost",
		Update: models.ProfileUpdate{City: str("Pune")},
	})

	require.ErrorIs(t, err, ErrProfileNotFound)
	stdErr := toStandardError(err, "ghost")
	assert.Equal(t, apperrors.ErrCodeProfileNotFound, stdErr.Code)
	assert.Contains(t, stdErr.Details, "ghost")
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		message string
	}{
		{name: "missing user", input: Input{Update: models.ProfileUpdate{City: str("Pune")}}, message: "userId"},
		{name: "empty update", input: Input{UserID: "u-1"}, message: "no fields"},
		{name: "height out of range", input: Input{UserID: "u-1", Update: models.ProfileUpdate{Height: f64(20)}}, message: "update.height"},
		{name: "weight out of range", input: Input{UserID: "u-1", Update: models.ProfileUpdate{Weight: f64(900)}}, message: "update.weight"},
		{name: "unknown gender", input: Input{UserID: "u-1", Update: models.ProfileUpdate{Gender: str("robot")}}, message: "update.gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, failingStore{})

			_, err := h.Execute(context.Background(), &tt.input)

			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, apperrors.ErrCodeInvalidStyleInput, toStandardError(err, tt.input.UserID).Code)
		})
	}
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	h := createTestHandler(t, failingStore{})

	_, err := h.Execute(context.Background(), &Input{UserID: "u-1", Update: models.ProfileUpdate{City: str("Pune")}})

	require.ErrorIs(t, err, profile.ErrStoreFailed)
	stdErr := toStandardError(err, "u-1")
	assert.Equal(t, apperrors.ErrCodeProfileStoreFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
