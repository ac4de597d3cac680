// internal/workers/feed/refresh-style-feed/handler_test.go
package refreshstylefeed

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/recommend"
	"stylist-workers/internal/styling/refresh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubProfiles struct{ profile *models.UserProfile }

func (s stubProfiles) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.profile, nil
}

type stubCatalog struct{ entries []models.AdviceEntry }

func (s stubCatalog) Entries(ctx context.Context) ([]models.AdviceEntry, error) {
	return s.entries, nil
}

type stubSuggester struct{ err error }

func (s stubSuggester) Suggest(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &recommend.Response{
		Source:  recommend.SourceAI,
		Outfits: []models.OutfitSuggestion{{ID: "o-1", Title: "Look"}},
		Context: models.CategoryContext{Slug: req.CategorySlug},
	}, nil
}

type recordingRefresher struct {
	owner string
	req   refresh.Request
}

func (r *recordingRefresher) Refresh(ctx context.Context, owner string, req refresh.Request) (*refresh.Snapshot, bool, error) {
	r.owner, r.req = owner, req
	return &refresh.Snapshot{Seq: 1, Owner: owner}, true, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout:  time.Second,
		MaxCount: 5,
	}
}

func createCoordinator(t *testing.T, suggester refresh.Suggester) *refresh.Coordinator {
	profiles := stubProfiles{profile: &models.UserProfile{UserID: "u-1", Gender: "female", SkinTone: "fair"}}
	catalog := stubCatalog{entries: []models.AdviceEntry{{
		Category: "Party Wear",
		For:      []string{"female"},
		Advice:   []string{"Metallic accents"},
	}}}
	return refresh.NewCoordinator(profiles, catalog, suggester, refresh.NewSequencer(), category.CategoryFirst, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	coordinator := createCoordinator(t, stubSuggester{})
	h := NewHandler(createTestConfig(), coordinator, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{UserID: "u-1", CategorySlug: "party", Count: 2})

	require.NoError(t, err)
	assert.True(t, output.Published)
	assert.Equal(t, uint64(1), output.Seq)
	assert.NotEmpty(t, output.RequestID)
	require.NotNil(t, output.Profile)
	assert.Equal(t, "female", output.Normalized.Gender)
	require.NotNil(t, output.Advice)
	assert.Equal(t, []string{"Metallic accents"}, output.Advice.Entry.Advice)
	require.NotNil(t, output.Suggestions)
	assert.Len(t, output.Suggestions.Outfits, 1)

	latest, ok := coordinator.Latest("u-1")
	require.True(t, ok)
	assert.Equal(t, output.RequestID, latest.RequestID)
}

func TestHandler_Execute_SequenceAdvancesPerOwner(t *testing.T) {
	h := NewHandler(createTestConfig(), createCoordinator(t, stubSuggester{}), logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := h.Execute(ctx, &Input{UserID: "u-1", CategorySlug: "party"})
	require.NoError(t, err)
	second, err := h.Execute(ctx, &Input{UserID: "u-1", CategorySlug: "gym"})
	require.NoError(t, err)
	other, err := h.Execute(ctx, &Input{UserID: "u-1", Owner: "u-1/home", CategorySlug: "gym"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, uint64(1), other.Seq)
	assert.True(t, second.Published)
}

func TestHandler_Execute_OwnerDefaultsToUser(t *testing.T) {
	refresher := &recordingRefresher{}
	h := NewHandler(createTestConfig(), refresher, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		UserID:       "u-9",
		CategorySlug: "street",
		Location:     &models.Coordinates{Latitude: 12.97, Longitude: 77.59},
	})

	require.NoError(t, err)
	assert.Equal(t, "u-9", refresher.owner)
	assert.Equal(t, "street", refresher.req.CategorySlug)
	require.NotNil(t, refresher.req.Location)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "no owner", input: Input{CategorySlug: "party"}},
		{name: "no category", input: Input{UserID: "u-1"}},
		{name: "count too high", input: Input{UserID: "u-1", CategorySlug: "party", Count: 6}},
		{name: "bad location", input: Input{UserID: "u-1", CategorySlug: "party", Location: &models.Coordinates{Latitude: 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), &recordingRefresher{}, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)

			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, apperrors.ErrCodeInvalidStyleInput, toStandardError(err).Code)
		})
	}
}

func TestHandler_Execute_SuggesterFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.ErrorCode
	}{
		{name: "deadline", err: context.DeadlineExceeded, wantCode: apperrors.ErrCodeAITimeout},
		{name: "other", err: errors.New("boom"), wantCode: apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), createCoordinator(t, stubSuggester{err: tt.err}), logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &Input{UserID: "u-1", CategorySlug: "party"})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, toStandardError(err).Code)
		})
	}
}
