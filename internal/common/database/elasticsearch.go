// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stylist-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ErrIndexMissing means the cluster answered but the advice index is absent.
var ErrIndexMissing = errors.New("elasticsearch index not found")

const esProbeTimeout = 5 * time.Second

// AdviceSearch holds the cluster that serves the style-advice index.
type AdviceSearch struct {
	Client *elasticsearch.Client
	index  string
}

// NewAdviceSearch builds a client for the advice index. No request is made.
func NewAdviceSearch(cfg config.ElasticsearchConfig, index string) (*AdviceSearch, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no addresses configured")
	}

	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &AdviceSearch{Client: es, index: index}, nil
}

func (s *AdviceSearch) Index() string { return s.index }

// Ready checks that the cluster is reachable and the advice index exists.
func (s *AdviceSearch) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, esProbeTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.Client)
	if err != nil {
		return fmt.Errorf("elasticsearch unreachable: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIndexMissing, s.index)
	case res.IsError():
		return fmt.Errorf("elasticsearch index check %s: %s", s.index, res.Status())
	}
	return nil
}
