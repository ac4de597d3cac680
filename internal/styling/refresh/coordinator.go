// internal/styling/refresh/coordinator.go
package refresh

import (
	"context"
	"sync"
	"time"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/advice"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/profile"
	"stylist-workers/internal/styling/recommend"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type AdviceEntries interface {
	Entries(ctx context.Context) ([]models.AdviceEntry, error)
}

type Suggester interface {
	Suggest(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

type Request struct {
	UserID       string
	CategorySlug string
	Location     *models.Coordinates
	Count        int
}

// Snapshot is the joined result of one refresh.
type Snapshot struct {
	Seq         uint64                   `json:"seq"`
	RequestID   string                   `json:"requestId"`
	Owner       string                   `json:"owner"`
	Profile     *models.UserProfile      `json:"profile,omitempty"`
	Normalized  models.NormalizedProfile `json:"normalized"`
	Advice      *advice.Result           `json:"advice,omitempty"`
	Suggestions *recommend.Response      `json:"suggestions,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty"`
	CompletedAt time.Time                `json:"completedAt"`
}

type Coordinator struct {
	profiles     ProfileReader
	catalog      AdviceEntries
	suggester    Suggester
	seq          *Sequencer
	advicePolicy category.GenderPolicy
	logger       logger.Logger

	loads singleflight.Group

	mu        sync.RWMutex
	published map[string]*Snapshot
}

func NewCoordinator(profiles ProfileReader, catalog AdviceEntries, suggester Suggester, seq *Sequencer, advicePolicy category.GenderPolicy, log logger.Logger) *Coordinator {
	if seq == nil {
		seq = NewSequencer()
	}
	if advicePolicy == "" {
		advicePolicy = category.CategoryFirst
	}
	return &Coordinator{
		profiles:     profiles,
		catalog:      catalog,
		suggester:    suggester,
		seq:          seq,
		advicePolicy: advicePolicy,
		logger:       log.WithFields(map[string]interface{}{"component": "refresh"}),
		published:    make(map[string]*Snapshot),
	}
}

// Refresh loads the profile, matches advice and builds outfit suggestions
// concurrently. The snapshot is always returned; published is false when a
// newer refresh for the same owner was started in the meantime.
func (c *Coordinator) Refresh(ctx context.Context, owner string, req Request) (snap *Snapshot, published bool, err error) {
	snap = &Snapshot{
		Seq:       c.seq.Next(owner),
		RequestID: uuid.NewString(),
		Owner:     owner,
	}
	log := c.logger.WithFields(map[string]interface{}{
		"owner":     owner,
		"seq":       snap.Seq,
		"requestId": snap.RequestID,
	})

	var warnMu sync.Mutex
	warn := func(msg string) {
		warnMu.Lock()
		snap.Warnings = append(snap.Warnings, msg)
		warnMu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := c.loadProfile(gctx, req.UserID)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			warn("profile: " + err.Error())
			return nil
		}
		snap.Profile = p
		return nil
	})

	g.Go(func() error {
		res, err := c.matchAdvice(gctx, req)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			warn("advice: " + err.Error())
			return nil
		}
		snap.Advice = res
		return nil
	})

	g.Go(func() error {
		resp, err := c.suggester.Suggest(gctx, recommend.Request{
			UserID:       req.UserID,
			CategorySlug: req.CategorySlug,
			Location:     req.Location,
			Count:        req.Count,
		})
		if err != nil {
			return err
		}
		snap.Suggestions = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("refresh aborted", map[string]interface{}{"error": err})
		return nil, false, err
	}

	if snap.Profile != nil {
		snap.Normalized = profile.Normalize(*snap.Profile, log)
	} else if snap.Suggestions != nil {
		snap.Normalized = snap.Suggestions.Profile
	}
	snap.CompletedAt = time.Now()

	published = c.publish(snap)
	if !published {
		log.Info("stale refresh discarded", map[string]interface{}{"latest": c.seq.Latest(owner)})
	}
	return snap, published, nil
}

func (c *Coordinator) loadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" || c.profiles == nil {
		return nil, nil
	}
	// The shared load outlives any single caller; each caller still honours its own ctx.
	ch := c.loads.DoChan(userID, func() (interface{}, error) {
		return c.profiles.GetProfile(context.WithoutCancel(ctx), userID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		p, _ := r.Val.(*models.UserProfile)
		return p, nil
	}
}

func (c *Coordinator) matchAdvice(ctx context.Context, req Request) (*advice.Result, error) {
	if c.catalog == nil {
		return nil, nil
	}
	entries, err := c.catalog.Entries(ctx)
	if err != nil {
		return nil, err
	}

	var p models.UserProfile
	loaded, err := c.loadProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		p = *loaded
	}

	res, ok := advice.Match(entries, profile.Normalize(p, logger.NewNoOpLogger()), req.CategorySlug, c.advicePolicy)
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (c *Coordinator) publish(snap *Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.Accept(snap.Owner, snap.Seq) {
		return false
	}
	if cur, ok := c.published[snap.Owner]; ok && cur.Seq > snap.Seq {
		return false
	}
	c.published[snap.Owner] = snap
	return true
}

// Latest returns the last published snapshot for owner.
func (c *Coordinator) Latest(owner string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.published[owner]
	return s, ok
}
