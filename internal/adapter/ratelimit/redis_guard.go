package ratelimit

import (
	"context"
	"strconv"
	"time"

	"harambee_billing/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultKeyPrefix = "ratelimit:donations:"

// RedisSlidingWindow keeps one sorted set per key, scored by attempt time in
// milliseconds, so every replica sees the same window.
type RedisSlidingWindow struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
	log    logrus.FieldLogger
}

var _ interfaces.IAdmissionGuard = (*RedisSlidingWindow)(nil)

func NewRedisSlidingWindow(client *redis.Client, limit int, window time.Duration, log logrus.FieldLogger) *RedisSlidingWindow {
	limit, window = normalize(limit, window)
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisSlidingWindow{
		client: client,
		limit:  limit,
		window: window,
		prefix: defaultKeyPrefix,
		now:    time.Now,
		log:    log,
	}
}

// Admit records the attempt and counts the window in a single MULTI/EXEC.
// On a Redis error it allows the attempt and returns the error for logging.
func (g *RedisSlidingWindow) Admit(ctx context.Context, key string) (interfaces.AdmissionDecision, error) {
	now := g.now()
	k := g.prefix + key
	windowStart := now.Add(-g.window).UnixMilli()

	pipe := g.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, k, &redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	card := pipe.ZCard(ctx, k)
	oldest := pipe.ZRangeWithScores(ctx, k, 0, 0)
	pipe.Expire(ctx, k, g.window)

	if _, err := pipe.Exec(ctx); err != nil {
		g.log.WithError(err).WithField("key", key).Warn("[ratelimit][redis] backend unavailable; failing open")
		return interfaces.AdmissionDecision{Allowed: true, Limit: g.limit, Remaining: g.limit}, err
	}

	first := now
	if zs := oldest.Val(); len(zs) > 0 {
		first = time.UnixMilli(int64(zs[0].Score))
	}
	return decide(g.limit, g.window, int(card.Val()), first, now), nil
}
