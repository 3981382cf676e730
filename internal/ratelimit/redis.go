package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// admitScript trims the sorted set to the trailing window, then adds the new
// admission only if the set still has room. Running it as one script keeps the
// check and the record atomic across instances.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return 0
end
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisSlidingWindow stores admissions in a Redis sorted set per key, scored
// by admission time in milliseconds.
type RedisSlidingWindow struct {
	client redis.Scripter
	limit  int
	window time.Duration
	clock  Clock
	prefix string
}

func NewRedisSlidingWindow(client redis.Scripter, limit int, window time.Duration, opts ...Option) *RedisSlidingWindow {
	o := buildOptions(opts)
	return &RedisSlidingWindow{
		client: client,
		limit:  limit,
		window: window,
		clock:  o.clock,
		prefix: o.prefix,
	}
}

func (s *RedisSlidingWindow) Admit(ctx context.Context, key string) (bool, error) {
	now := s.clock().UnixMilli()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := admitScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		now, s.window.Milliseconds(), s.limit, member,
	).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit: redis admit: %w", err)
	}
	return res == 1, nil
}
