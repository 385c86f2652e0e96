package results_cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/redis/go-redis/v9"
)

const key = "sheet-relay:results:v1"

// ResultsCache keeps the last fetched record set in Redis. With a nil client
// every call is a miss.
type ResultsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func New(cfg *config.Config, client *redis.Client, log *slog.Logger) *ResultsCache {
	return &ResultsCache{client, cfg.Infrastructure.Redis.Ttl, log}
}

func (this *ResultsCache) Get(ctx context.Context) (*app.RecordSet, bool) {
	if this.client == nil {
		return nil, false
	}

	raw, err := this.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		this.log.Warn("results cache read failed", "error", err)
		return nil, false
	}

	set, err := decode(raw)
	if err != nil {
		this.log.Warn("results cache entry is corrupt", "error", err)
		return nil, false
	}
	return set, true
}

func (this *ResultsCache) Set(ctx context.Context, set *app.RecordSet) {
	if this.client == nil || this.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(set)
	if err != nil {
		this.log.Warn("results cache encode failed", "error", err)
		return
	}
	if err := this.client.Set(ctx, key, raw, this.ttl).Err(); err != nil {
		this.log.Warn("results cache write failed", "error", err)
	}
}

func (this *ResultsCache) Delete(ctx context.Context) error {
	if this.client == nil {
		return nil
	}
	return this.client.Del(ctx, key).Err()
}

// decode keeps integers as int64 so cached and fresh records compare alike.
func decode(raw []byte) (*app.RecordSet, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var set app.RecordSet
	if err := dec.Decode(&set); err != nil {
		return nil, err
	}
	if set.Records == nil {
		set.Records = []app.Record{}
	}
	for _, rec := range set.Records {
		for col, v := range rec {
			if n, ok := v.(json.Number); ok {
				rec[col] = number(n)
			}
		}
	}
	return &set, nil
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
