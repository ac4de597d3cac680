// internal/workers/outfits/analyze-twinning/handler_test.go
package analyzetwinning

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "stylist-workers/internal/common/errors"
	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/twinning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type recordingAnalyzer struct {
	got twinning.Request
	err error
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, req twinning.Request) (*models.TwinningAnalysis, error) {
	r.got = req
	if r.err != nil {
		return nil, r.err
	}
	return &models.TwinningAnalysis{
		PersonA: req.PersonA.Hint,
		PersonB: req.PersonB.Hint,
		Source:  twinning.SourceAI,
	}, nil
}

type busyAI struct{}

func (busyAI) Call(ctx context.Context, prompt string, image *gateway.Image) (gateway.Result, error) {
	return gateway.Result{Attempts: 3}, gateway.ErrProviderBusy
}

func createTestConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		ImageMaxBytes: 1024,
	}
}

func createTestHandler(t *testing.T, analyzer Analyzer) *Handler {
	return NewHandler(createTestConfig(), analyzer, commonhttp.NewClient(time.Second), logger.NewTestLogger(t))
}

func newImageServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.jpg", "/b.jpg", "/venue.png":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
		case "/large.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(make([]byte, 4096))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_HintsOnly(t *testing.T) {
	analyzer := &recordingAnalyzer{}
	h := createTestHandler(t, analyzer)

	output, err := h.Execute(context.Background(), &Input{
		PersonA:      PersonInput{Gender: "female", SkinTone: "Fair"},
		PersonB:      PersonInput{Gender: "male", BodyType: "slim"},
		Relationship: "couple",
		Occasion:     "wedding",
	})

	require.NoError(t, err)
	assert.Nil(t, analyzer.got.PersonA.Image)
	assert.Nil(t, analyzer.got.PersonB.Image)
	assert.Nil(t, analyzer.got.Place)
	assert.Equal(t, "female", analyzer.got.PersonA.Hint.Gender)
	assert.Equal(t, "slim", analyzer.got.PersonB.Hint.BodyType)
	assert.Equal(t, "couple", analyzer.got.Relationship)
	assert.Equal(t, "wedding", analyzer.got.Occasion)
	assert.Equal(t, twinning.SourceAI, output.Analysis.Source)
}

func TestHandler_Execute_FetchesAllImages(t *testing.T) {
	server := newImageServer()
	defer server.Close()

	analyzer := &recordingAnalyzer{}
	h := createTestHandler(t, analyzer)

	_, err := h.Execute(context.Background(), &Input{
		PersonA:       PersonInput{ImageURL: server.URL + "/a.jpg"},
		PersonB:       PersonInput{ImageURL: server.URL + "/b.jpg"},
		PlaceImageURL: server.URL + "/venue.png",
	})

	require.NoError(t, err)
	require.NotNil(t, analyzer.got.PersonA.Image)
	require.NotNil(t, analyzer.got.PersonB.Image)
	require.NotNil(t, analyzer.got.Place)
	assert.Equal(t, "image/jpeg", analyzer.got.PersonA.Image.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, analyzer.got.Place.Data)
}

func TestHandler_Execute_FallbackThroughAnalyzer(t *testing.T) {
	h := createTestHandler(t, twinning.NewAnalyzer(busyAI{}, logger.NewTestLogger(t)))

	output, err := h.Execute(context.Background(), &Input{
		PersonA: PersonInput{Gender: "female"},
		PersonB: PersonInput{Gender: "male"},
		Count:   2,
	})

	require.NoError(t, err)
	assert.Equal(t, twinning.SourceFallback, output.Analysis.Source)
	assert.Len(t, output.Analysis.PersonAOutfits, 2)
	assert.Len(t, output.Analysis.PersonBOutfits, 2)
	assert.NotEmpty(t, output.Analysis.Coordination.SharedColors)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ImageFetchFailures(t *testing.T) {
	server := newImageServer()
	defer server.Close()

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: "/missing.jpg"},
		{name: "not an image", path: "/page.html"},
		{name: "too large", path: "/large.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &recordingAnalyzer{}
			h := createTestHandler(t, analyzer)

			_, err := h.Execute(context.Background(), &Input{
				PersonA: PersonInput{ImageURL: server.URL + tt.path},
				PersonB: PersonInput{Gender: "male"},
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrImageFetchFailed))

			stdErr := toStandardError(err)
			assert.Equal(t, apperrors.ErrCodeImageFetchFailed, stdErr.Code)
			assert.Equal(t, server.URL+tt.path, stdErr.Metadata["url"])
		})
	}
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{
			name:  "person without image or gender",
			input: Input{PersonA: PersonInput{SkinTone: "Fair"}, PersonB: PersonInput{Gender: "male"}},
		},
		{
			name:  "relative image url",
			input: Input{PersonA: PersonInput{ImageURL: "/a.jpg"}, PersonB: PersonInput{Gender: "male"}},
		},
		{
			name:  "non-http place url",
			input: Input{PersonA: PersonInput{Gender: "female"}, PersonB: PersonInput{Gender: "male"}, PlaceImageURL: "ftp://host/x.png"},
		},
		{
			name:  "count too high",
			input: Input{PersonA: PersonInput{Gender: "female"}, PersonB: PersonInput{Gender: "male"}, Count: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &recordingAnalyzer{}
			h := createTestHandler(t, analyzer)

			_, err := h.Execute(context.Background(), &tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, apperrors.ErrCodeInvalidStyleInput, toStandardError(err).Code)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	h := createTestHandler(t, &recordingAnalyzer{err: context.DeadlineExceeded})

	_, err := h.Execute(context.Background(), &Input{
		PersonA: PersonInput{Gender: "female"},
		PersonB: PersonInput{Gender: "male"},
	})

	require.ErrorIs(t, err, ErrAnalysisTimeout)
	assert.Equal(t, apperrors.ErrCodeAITimeout, toStandardError(err).Code)
}
