// internal/styling/gateway/gateway.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylist-workers/internal/common/logger"
)

var (
	ErrProviderBusy  = errors.New("AI_PROVIDER_BUSY")
	ErrTimeout       = errors.New("AI_TIMEOUT")
	ErrRequestFailed = errors.New("AI_REQUEST_FAILED")
)

// DefaultBusyPhrases are the provider failure messages that arrive as a
// normal response body instead of an error.
var DefaultBusyPhrases = []string{
	"service busy",
	"service is busy",
	"service is currently unavailable",
	"overloaded",
	"try again later",
	"temporarily unavailable",
	"resource exhausted",
	"too many requests",
	"high demand",
}

const (
	KindText   = "text"
	KindVision = "vision"

	OutcomeOK      = "ok"
	OutcomeBusy    = "busy"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Image is an inline image sent with a vision request.
type Image struct {
	Data     []byte
	MIMEType string
}

// Provider is a generative AI backend.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	AnalyzeImage(ctx context.Context, image Image, prompt string) (string, error)
}

// Attempt describes one provider call.
type Attempt struct {
	Provider string
	Kind     string
	Number   int
	Outcome  string
	Duration time.Duration
}

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	BusyPhrases []string
	OnRequest   func(ctx context.Context, a Attempt)
}

type Result struct {
	Text     string
	Attempts int
	Provider string
}

type Gateway struct {
	provider Provider
	cfg      Config
	logger   logger.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

func New(provider Provider, cfg Config, log logger.Logger) *Gateway {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if len(cfg.BusyPhrases) == 0 {
		cfg.BusyPhrases = DefaultBusyPhrases
	}
	return &Gateway{
		provider: provider,
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "ai-gateway", "provider": provider.Name()}),
		wait:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call sends prompt, with image when non-nil. Only busy responses are retried,
// with a fixed delay; other failures return immediately.
func (g *Gateway) Call(ctx context.Context, prompt string, image *Image) (Result, error) {
	kind := KindText
	if image != nil {
		kind = KindVision
	}

	var lastBusy string
	for attempt := 1; attempt <= g.cfg.MaxRetries+1; attempt++ {
		if attempt > 1 {
			if err := g.wait(ctx, g.cfg.RetryDelay); err != nil {
				return Result{}, err
			}
		}

		start := time.Now()
		text, err := g.invoke(ctx, prompt, image)
		outcome := g.classify(ctx, text, err)
		g.report(ctx, Attempt{
			Provider: g.provider.Name(),
			Kind:     kind,
			Number:   attempt,
			Outcome:  outcome,
			Duration: time.Since(start),
		})

		switch outcome {
		case OutcomeOK:
			return Result{Text: text, Attempts: attempt, Provider: g.provider.Name()}, nil
		case OutcomeBusy:
			lastBusy = text
			if err != nil {
				lastBusy = err.Error()
			}
			g.logger.Warn("provider busy", map[string]interface{}{
				"attempt": attempt,
				"message": truncate(lastBusy, 120),
			})
			continue
		case OutcomeTimeout:
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, fmt.Errorf("%w: no response within %s", ErrTimeout, g.cfg.Timeout)
		default:
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
	}

	return Result{}, fmt.Errorf("%w after %d attempts: %s", ErrProviderBusy, g.cfg.MaxRetries+1, truncate(lastBusy, 120))
}

func (g *Gateway) invoke(ctx context.Context, prompt string, image *Image) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	if image != nil {
		return g.provider.AnalyzeImage(ctx, *image, prompt)
	}
	return g.provider.GenerateText(ctx, prompt)
}

func (g *Gateway) classify(ctx context.Context, text string, err error) string {
	if err != nil {
		switch {
		case ctx.Err() == nil && g.IsBusy(err.Error()):
			return OutcomeBusy
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return OutcomeTimeout
		default:
			return OutcomeError
		}
	}
	if !looksStructured(text) && g.IsBusy(text) {
		return OutcomeBusy
	}
	return OutcomeOK
}

// IsBusy reports whether s contains one of the configured busy phrases.
func (g *Gateway) IsBusy(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range g.cfg.BusyPhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// looksStructured is true for JSON payloads, which are never busy notices even
// when a style tip happens to contain a busy phrase.
func looksStructured(text string) bool {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSpace(t)
	return strings.HasPrefix(t, "[") || strings.HasPrefix(t, "{")
}

func (g *Gateway) report(ctx context.Context, a Attempt) {
	if g.cfg.OnRequest != nil {
		g.cfg.OnRequest(ctx, a)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
