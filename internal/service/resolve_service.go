package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ipresolver/internal/config"
	"ipresolver/internal/model"
	"ipresolver/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type AddressResolver interface {
	Resolve(cidr string) (model.AddressResult, error)
}

type Repository interface {
	SaveResolution(ctx context.Context, res model.Resolution) error
	RecentResolutions(ctx context.Context, limit int) ([]model.Resolution, error)
	PruneResolutions(ctx context.Context, olderThan time.Time) (int64, error)
	GetResolutionCount(ctx context.Context) (int64, error)
}

type Cache interface {
	SetResult(ctx context.Context, cidr string, result model.AddressResult) error
	GetResult(ctx context.Context, cidr string) (model.AddressResult, error)
}

type ResolveService struct {
	resolver AddressResolver
	repo     Repository
	cache    Cache
	config   *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewResolveService(
	resolver AddressResolver,
	repo Repository,
	cache Cache,
	config *config.Config,
	logger *zap.Logger,
) *ResolveService {
	return &ResolveService{
		resolver: resolver,
		repo:     repo,
		cache:    cache,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Start checks the history store and schedules pruning of old entries until
// ctx is cancelled.
func (s *ResolveService) Start(ctx context.Context) error {
	count, err := s.repo.GetResolutionCount(ctx)
	if err != nil {
		return fmt.Errorf("checking resolution history: %w", err)
	}
	s.logger.Info("Resolution history available", zap.Int64("entries", count))

	ticker := time.NewTicker(s.config.PruneInterval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				if _, err := s.PruneHistory(ctx); err != nil {
					s.logger.Error("scheduled history pruning failed", zap.Error(err))
				}
			}
		}
	}()

	return nil
}

func (s *ResolveService) PruneHistory(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.config.HistoryRetention)

	removed, err := s.repo.PruneResolutions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning resolutions before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	s.logger.Info("Pruned resolution history",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff))
	return removed, nil
}

// Resolve answers from the cache when possible. Cache and history failures
// are logged and never fail the request.
func (s *ResolveService) Resolve(ctx context.Context, cidr string) (*model.AddressResult, error) {
	cidr = strings.TrimSpace(cidr)

	cached, err := s.cache.GetResult(ctx, cidr)
	if err == nil {
		s.record(ctx, cidr, cached, nil)
		return &cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("failed to read cached result",
			zap.String("cidr", cidr),
			zap.Error(err))
	}

	result, err := s.resolver.Resolve(cidr)
	s.record(ctx, cidr, result, err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetResult(ctx, cidr, result); err != nil {
		s.logger.Warn("failed to cache result",
			zap.String("cidr", cidr),
			zap.Error(err))
	}

	return &result, nil
}

func (s *ResolveService) History(ctx context.Context, limit int) ([]model.Resolution, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return s.repo.RecentResolutions(ctx, limit)
}

func (s *ResolveService) record(ctx context.Context, cidr string, result model.AddressResult, resolveErr error) {
	res := model.Resolution{
		CIDR:       cidr,
		IPv4:       result.IPv4,
		IPv6:       result.IPv6,
		ResolvedAt: s.now().UTC(),
	}
	if resolveErr != nil {
		res.Error = resolveErr.Error()
	}

	if err := s.repo.SaveResolution(ctx, res); err != nil {
		s.logger.Warn("failed to record resolution",
			zap.String("cidr", cidr),
			zap.Error(err))
	}
}
