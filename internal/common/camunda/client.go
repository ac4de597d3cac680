// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client is the broker connection shared by every stylist job worker.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Failure kinds reported on ZeebeError.
const (
	KindUnavailable  = "unavailable"
	KindTimeout      = "timeout"
	KindNotFound     = "not_found"
	KindUnauthorized = "unauthorized"
	KindExternal     = "external"
)

// ZeebeError is a broker call that failed for good, after any retries.
type ZeebeError struct {
	Operation string
	Attempts  int
	Kind      string
	Err       error
}

func (e *ZeebeError) Error() string {
	msg := fmt.Sprintf("zeebe %s failed (%s)", e.Operation, e.Kind)
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ZeebeError) Unwrap() error { return e.Err }

// gRPC failures are only visible as text here; first match wins.
var zeebeFailures = []struct {
	phrase    string
	kind      string
	retryable bool
}{
	{"connection refused", KindUnavailable, true},
	{"connection reset", KindUnavailable, true},
	{"broken pipe", KindUnavailable, true},
	{"unavailable", KindUnavailable, true},
	{"unreachable", KindUnavailable, true},
	{"deadline exceeded", KindTimeout, true},
	{"timeout", KindTimeout, true},
	{"not found", KindNotFound, false},
	{"permission denied", KindUnauthorized, false},
	{"unauthorized", KindUnauthorized, false},
}

func classify(err error) (kind string, retryable bool) {
	msg := strings.ToLower(err.Error())
	for _, f := range zeebeFailures {
		if strings.Contains(msg, f.phrase) {
			return f.kind, f.retryable
		}
	}
	return KindExternal, false
}

// NewClientWithConfig dials the gateway and waits for a topology answer,
// backing off on transient failures.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	if err := c.HealthCheckWithRetry(context.Background()); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", config.GatewayAddress, err)
	}
	return c, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs commandFunc with exponential backoff while the
// failure is transient.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	commandFunc func(context.Context) (interface{}, error),
	operationName string,
) (interface{}, error) {
	retry := c.config.RetryConfig
	var lastErr error

	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		result, err := commandFunc(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableZeebeError(err) || attempt == retry.MaxRetries {
			return nil, mapZeebeError(err, operationName, attempt)
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("zeebe %s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}
	}

	return nil, fmt.Errorf("zeebe %s failed after %d retries: %w", operationName, retry.MaxRetries, lastErr)
}

func isRetryableZeebeError(err error) bool {
	_, retryable := classify(err)
	return retryable
}

func mapZeebeError(err error, operation string, attempt int) *ZeebeError {
	kind, _ := classify(err)
	return &ZeebeError{Operation: operation, Attempts: attempt, Kind: kind, Err: err}
}

// HealthCheck is a single topology request; /ready uses it.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

func (c *Client) HealthCheckWithRetry(ctx context.Context) error {
	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, c.HealthCheck(ctx)
	}, "topology")
	return err
}

// Deploy uploads a BPMN model such as the style-profile process.
func (c *Client) Deploy(ctx context.Context, name string, model []byte) error {
	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.client.NewDeployResourceCommand().AddResource(model, name).Send(ctx)
	}, "deploy "+name)
	return err
}
