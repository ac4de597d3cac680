// internal/styling/advice/catalog_test.go
package advice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	calls   atomic.Int32
	entries []models.AdviceEntry
	err     error
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) Load(ctx context.Context) ([]models.AdviceEntry, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

// ==========================
// Catalog
// ==========================

func TestCatalog_LoadsOnce(t *testing.T) {
	src := &scriptedSource{entries: []models.AdviceEntry{entry("gym wear", "a")}}
	c := NewCatalog(src, logger.NewTestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := c.Entries(context.Background())
			assert.NoError(t, err)
			assert.Len(t, entries, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	assert.False(t, c.LoadedAt().IsZero())
}

func TestCatalog_FirstLoadFailureIsRetried(t *testing.T) {
	src := &scriptedSource{err: errors.New("boom")}
	c := NewCatalog(src, logger.NewTestLogger(t))

	_, err := c.Entries(context.Background())
	require.Error(t, err)

	src.err = nil
	src.entries = []models.AdviceEntry{entry("party wear", "a")}

	entries, err := c.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCatalog_FailedReloadKeepsSnapshot(t *testing.T) {
	src := &scriptedSource{entries: []models.AdviceEntry{entry("gym wear", "a")}}
	c := NewCatalog(src, logger.NewTestLogger(t))

	_, err := c.Entries(context.Background())
	require.NoError(t, err)

	src.err = errors.New("down")
	require.Error(t, c.Reload(context.Background()))

	entries, err := c.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCatalog_Schedule(t *testing.T) {
	s, err := gocron.NewScheduler(gocron.WithLogger(logger.NewSchedulerLogger(logger.NewTestLogger(t))))
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	c := NewCatalog(&scriptedSource{}, logger.NewTestLogger(t))

	job, err := c.Schedule(s, 0)
	require.NoError(t, err)
	assert.Nil(t, job)

	job, err = c.Schedule(s, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "advice-catalog-reload", job.Name())
	assert.Len(t, s.Jobs(), 1)
}

// ==========================
// Sources
// ==========================

const blob = `[{"category":"gym wear","for":["male","tall","slim","Fair","gym"],"advice":["Go breathable"],"source":["coach"]}]`

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer read-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(blob))
	}))
	defer server.Close()

	src := NewHTTPSource(commonhttp.NewClient(time.Second), server.URL, "read-token")
	entries, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "male", entries[0].Attribute(models.AdviceForGender))
	assert.Equal(t, []string{"Go breathable"}, entries[0].Advice)
}

func TestHTTPSource_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewHTTPSource(commonhttp.NewClient(time.Second), server.URL, "").Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceFailed)
}

type fakeObjects map[string][]byte

func (f fakeObjects) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if b, ok := f[bucket+"/"+key]; ok {
		return b, nil
	}
	return nil, errors.New("NoSuchKey")
}

func TestS3Source(t *testing.T) {
	store := fakeObjects{
		"styles/advice.json": []byte(`{"entries":` + blob + `}`),
		"styles/broken.json": []byte(`not json`),
	}

	entries, err := NewS3Source(store, "styles", "advice.json").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = NewS3Source(store, "styles", "broken.json").Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceFailed)

	_, err = NewS3Source(store, "styles", "missing.json").Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceFailed)
}

func TestElasticsearchSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "/"+DefaultIndex+"/_search", r.URL.Path)
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[
			{"_source":{"category":"gym wear","for":["male"],"advice":["a"],"source":["s"]}},
			{"_source":{"category":"party wear","for":["female"],"advice":["b"],"source":["s"]}}
		]}}`))
	}))
	defer server.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	src := NewElasticsearchSource(es, "")
	entries, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "party wear", entries[1].Category)
}

func TestElasticsearchSource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"index_not_found_exception"}`))
	}))
	defer server.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	_, err = NewElasticsearchSource(es, "style-advice").Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceFailed)
}
