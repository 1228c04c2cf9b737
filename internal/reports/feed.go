package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Feed consumes committed-order events and maintains Redis sales counters:
// units sold per product and a revenue-ranked leaderboard. These back the
// fast report paths without touching Postgres.
type Feed struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCommitted is installed as the consumer handler. Events are
// deduplicated by event id so replays do not double-count.
func (f *Feed) HandleOrderCommitted(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCommitted {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, f.ServiceName, env.EventID)
	seen, err := redisx.Exists(ctx, f.Redis, dkey)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	p, err := events.UnwrapPayload[events.OrderCommittedPayload](env.Payload)
	if err != nil {
		return err
	}

	pipe := f.Redis.TxPipeline()
	for _, line := range p.Lines {
		field := strconv.FormatInt(line.ProductID, 10)
		pipe.HIncrBy(ctx, redisx.KeySalesQty, field, int64(line.Qty))
		pipe.ZIncrBy(ctx, redisx.KeySalesTop, float64(line.SubtotalCents), field)
	}
	pipe.Set(ctx, dkey, "1", redisx.TTLDedup)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update sales counters: %w", err)
	}
	return nil
}

// TopProduct is one leaderboard entry from the Redis fast path.
type TopProduct struct {
	ProductID    int64
	RevenueCents int64
}

// TopProducts reads the revenue leaderboard maintained by the feed.
func TopProducts(ctx context.Context, rdb *redis.Client, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	zs, err := rdb.ZRevRangeWithScores(ctx, redisx.KeySalesTop, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read sales leaderboard: %w", err)
	}
	out := make([]TopProduct, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, TopProduct{ProductID: id, RevenueCents: int64(z.Score)})
	}
	return out, nil
}
