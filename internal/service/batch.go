package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"ipresolver/internal/model"
)

// SingleResolver resolves one CIDR; both ResolveService and a bare
// resolver adapter satisfy it.
type SingleResolver interface {
	Resolve(ctx context.Context, cidr string) (*model.AddressResult, error)
}

type BatchResolver struct {
	resolver SingleResolver
	logger   *zap.Logger
}

func NewBatchResolver(resolver SingleResolver, logger *zap.Logger) *BatchResolver {
	return &BatchResolver{
		resolver: resolver,
		logger:   logger,
	}
}

// ResolveBatch resolves one CIDR per line. Blank lines and lines starting
// with '#' are skipped. Failed lines are reported per item.
func (b *BatchResolver) ResolveBatch(ctx context.Context, r io.Reader) ([]model.BatchItem, model.BatchStats, error) {
	startTime := time.Now()
	var stats model.BatchStats
	items := []model.BatchItem{}

	scanner := bufio.NewScanner(r)
	const maxCapacity = 64 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			stats.Skipped++
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		item := model.BatchItem{Line: lineCount, CIDR: line}
		result, err := b.resolver.Resolve(ctx, line)
		if err != nil {
			stats.Failed++
			item.Error = err.Error()
			b.logger.Debug("failed to resolve batch line",
				zap.Int("line", lineCount),
				zap.String("cidr", line),
				zap.Error(err))
		} else {
			stats.Resolved++
			item.Result = *result
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("reading batch input: %w", err)
	}

	b.logger.Info("Finished resolving batch",
		zap.Int("total_lines", lineCount),
		zap.Int("resolved", stats.Resolved),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", time.Since(startTime)))

	return items, stats, nil
}

// Direct adapts a resolver for callers without a cache or history store.
type Direct struct {
	Resolver AddressResolver
}

func (d Direct) Resolve(_ context.Context, cidr string) (*model.AddressResult, error) {
	result, err := d.Resolver.Resolve(strings.TrimSpace(cidr))
	if err != nil {
		return nil, err
	}
	return &result, nil
}
