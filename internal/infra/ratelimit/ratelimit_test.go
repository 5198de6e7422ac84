//go:build unit

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScripter struct {
	result interface{}
	err    error
	keys   []string
	args   []interface{}
	calls  int
}

func (f *fakeScripter) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.calls++
	f.keys = keys
	f.args = args
	return redis.NewCmdResult(f.result, f.err)
}

func TestRedisLimiter_Allow(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
		err    error
		want   bool
	}{
		{name: "within window", result: int64(3), want: true},
		{name: "window full", result: int64(-1), want: false},
		{name: "redis down fails open", err: errors.New("dial tcp: connection refused"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := &fakeScripter{result: tt.result, err: tt.err}
			l := NewRedisLimiter(rdb, 5, time.Minute)

			assert.Equal(t, tt.want, l.Allow(context.Background(), "203.0.113.7"))
			require.Equal(t, 1, rdb.calls)
			assert.Equal(t, []string{"rate_limit:pickup:203.0.113.7"}, rdb.keys)
		})
	}
}

func TestRedisLimiter_WindowArgs(t *testing.T) {
	rdb := &fakeScripter{result: int64(1)}
	l := NewRedisLimiter(rdb, 5, 30*time.Second)
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Allow(context.Background(), "k")

	require.Len(t, rdb.args, 5)
	assert.Equal(t, fixed.UnixMilli(), rdb.args[0])
	assert.Equal(t, fixed.UnixMilli()-30_000, rdb.args[1])
	assert.Equal(t, int64(30), rdb.args[2])
	assert.Equal(t, 5, rdb.args[4])
}

func TestRedisLimiter_DisabledLimit(t *testing.T) {
	rdb := &fakeScripter{result: int64(-1)}
	l := NewRedisLimiter(rdb, 0, time.Minute)

	assert.True(t, l.Allow(context.Background(), "k"))
	assert.Zero(t, rdb.calls)
}

func TestNoopLimiter(t *testing.T) {
	assert.True(t, NoopLimiter{}.Allow(context.Background(), "anything"))
}
