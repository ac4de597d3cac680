// internal/styling/advice/source.go
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSourceFailed = errors.New("ADVICE_SOURCE_FAILED")

const (
	DefaultIndex   = "style-advice"
	maxIndexedDocs = 10000
)

// Source loads the whole advice dataset.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.AdviceEntry, error)
}

// decodeEntries accepts a bare array or an {"entries": [...]} wrapper.
func decodeEntries(data []byte) ([]models.AdviceEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Entries []models.AdviceEntry `json:"entries"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Entries, nil
	}
	var entries []models.AdviceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// HTTPSource reads a public JSON blob, optionally with a read token.
type HTTPSource struct {
	http  *commonhttp.Client
	url   string
	token string
}

func NewHTTPSource(client *commonhttp.Client, url, token string) *HTTPSource {
	return &HTTPSource{http: client, url: url, token: token}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Load(ctx context.Context) ([]models.AdviceEntry, error) {
	headers := map[string]string{"Accept": "application/json"}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}
	body, _, err := s.http.Fetch(ctx, s.url, headers, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	entries, err := decodeEntries(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode advice blob: %v", ErrSourceFailed, err)
	}
	return entries, nil
}

type objectReader interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Source reads the dataset from a single object.
type S3Source struct {
	store  objectReader
	bucket string
	key    string
}

func NewS3Source(store objectReader, bucket, key string) *S3Source {
	return &S3Source{store: store, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Load(ctx context.Context) ([]models.AdviceEntry, error) {
	body, err := s.store.GetObject(ctx, s.bucket, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	entries, err := decodeEntries(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode s3://%s/%s: %v", ErrSourceFailed, s.bucket, s.key, err)
	}
	return entries, nil
}

// ElasticsearchSource reads every document of an index, one entry per document.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	if index == "" {
		index = DefaultIndex
	}
	return &ElasticsearchSource{client: client, index: index}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.AdviceEntry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]models.AdviceEntry, error) {
	size := maxIndexedDocs
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(`{"query":{"match_all":{}},"sort":["_doc"]}`),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search %s: %s", ErrSourceFailed, s.index, res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrSourceFailed, err)
	}

	entries := make([]models.AdviceEntry, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		entries = append(entries, hit.Source)
	}
	return entries, nil
}
