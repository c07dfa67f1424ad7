package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const changeChannel = "store:changes"

// RedisFeed carries store change events over Redis pub/sub so read-side
// consumers (live dashboards) can follow mutations without polling.
type RedisFeed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisFeed wraps a connected redis client.
func NewRedisFeed(client *redis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

// Publish emits a change event. Failures are logged and dropped; delivery is
// best effort.
func (f *RedisFeed) Publish(ctx context.Context, change Change) {
	if f == nil || f.client == nil {
		return
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return
	}
	if err := f.client.Publish(ctx, changeChannel, payload).Err(); err != nil {
		f.logger.Debug("change feed publish failed", zap.String("path", change.Path), zap.Error(err))
	}
}

// Subscribe streams changes at or below path to fn until cancel is called.
func (f *RedisFeed) Subscribe(ctx context.Context, path string, fn func(Change)) (func(), error) {
	sub := f.client.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				continue
			}
			if change.Path == path || strings.HasPrefix(change.Path, path+"/") {
				fn(change)
			}
		}
	}()

	return func() { _ = sub.Close() }, nil
}
