package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/goliatone/go-sales-dashboard/pkg/storeapi"
)

const defaultLoadTimeout = 15 * time.Second

var errMissingClient = errors.New("datasource: store client is required")

// Config wires the upstream client and aggregation options.
type Config struct {
	Client    storeapi.Client
	Aggregate aggregate.Options
	// Timeout bounds a single load, independent of the callers waiting on it.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Source fetches the three store collections concurrently and aggregates
// them. Concurrent Load calls share one in-flight fetch.
type Source struct {
	client  storeapi.Client
	opts    aggregate.Options
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group
}

// NewSource builds a Source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Client == nil {
		return nil, errMissingClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLoadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Source{
		client:  cfg.Client,
		opts:    cfg.Aggregate,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Load returns a freshly aggregated snapshot. Any collection failure fails
// the whole load; no partial snapshot is ever returned.
func (s *Source) Load(ctx context.Context) (aggregate.Snapshot, error) {
	ch := s.group.DoChan("snapshot", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return aggregate.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return aggregate.Snapshot{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("snapshot load shared between callers")
		}
		return res.Val.(aggregate.Snapshot), nil
	}
}

// Collections fetches the raw collections without aggregating them.
func (s *Source) Collections(ctx context.Context) (storeapi.Collections, error) {
	var out storeapi.Collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.client.Products(gctx)
		out.Products = products
		return err
	})
	g.Go(func() error {
		carts, err := s.client.Carts(gctx)
		out.Carts = carts
		return err
	})
	g.Go(func() error {
		users, err := s.client.Users(gctx)
		out.Users = users
		return err
	})
	if err := g.Wait(); err != nil {
		return storeapi.Collections{}, fmt.Errorf("datasource: load collections: %w", err)
	}
	return out, nil
}

func (s *Source) fetch(ctx context.Context) (aggregate.Snapshot, error) {
	started := time.Now()
	collections, err := s.Collections(ctx)
	if err != nil {
		s.logger.Warn("snapshot load failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return aggregate.Snapshot{}, err
	}
	snap := aggregate.Build(collections, s.opts)
	s.logger.Info("snapshot loaded",
		zap.Int("products", len(collections.Products)),
		zap.Int("carts", len(collections.Carts)),
		zap.Int("users", len(collections.Users)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return snap, nil
}
