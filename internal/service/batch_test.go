package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ipresolver/internal/cidr"
	"ipresolver/internal/resolver"
)

func newDirectBatch() *BatchResolver {
	logger := zap.NewNop()
	r := resolver.NewResolver(cidr.NewParser(), logger)
	return NewBatchResolver(Direct{Resolver: r}, logger)
}

func TestBatchResolver_ResolveBatch(t *testing.T) {
	input := `# lab subnets
192.168.1.0/24

  10.0.0.0/31
not-a-cidr
10.0.0.9/32
`

	items, stats, err := newDirectBatch().ResolveBatch(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, stats.Skipped)
	require.Len(t, items, 4)

	assert.Equal(t, 2, items[0].Line)
	assert.Equal(t, "192.168.1.1", items[0].Result.IPv4)
	assert.Equal(t, "0:0:0:0:0:ffff:c0a8:0101", items[0].Result.IPv6)

	assert.Equal(t, 4, items[1].Line)
	assert.Equal(t, "10.0.0.0/31", items[1].CIDR)
	assert.Equal(t, "10.0.0.1", items[1].Result.IPv4)

	assert.Equal(t, "not-a-cidr", items[2].CIDR)
	assert.NotEmpty(t, items[2].Error)
	assert.Empty(t, items[2].Result.IPv4)

	assert.Equal(t, 6, items[3].Line)
	assert.NotEmpty(t, items[3].Error)
}

func TestBatchResolver_ResolveBatch_Empty(t *testing.T) {
	items, stats, err := newDirectBatch().ResolveBatch(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, stats.Resolved+stats.Failed+stats.Skipped)
}

func TestBatchResolver_ResolveBatch_ReadError(t *testing.T) {
	r := iotest.ErrReader(errors.New("disk gone"))

	_, _, err := newDirectBatch().ResolveBatch(context.Background(), r)
	assert.Error(t, err)
}

func TestBatchResolver_ResolveBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newDirectBatch().ResolveBatch(ctx, strings.NewReader("10.0.0.0/8\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
