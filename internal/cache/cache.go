// Package cache is the Redis-backed action historian. Every accepted game
// action is published to a stream so external consumers can replay or audit
// a session. The integration is optional: a nil client makes every publish
// a silent no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil when REDIS_ADDR is unset.
var Rdb *redis.Client

const actionStream = "game:actions"

// Init connects the shared client and verifies the connection.
func Init(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	Rdb = redis.NewClient(&redis.Options{Addr: addr})
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	logrus.Infof("cache: connected to redis at %s", addr)
	return nil
}

// GameActionRecord is one historian entry: a single accepted action with its
// position in the game's action sequence.
type GameActionRecord struct {
	GameID        uuid.UUID      `json:"gameId"`
	ActionIndex   int            `json:"actionIndex"`
	ActorID       int            `json:"actorId"` // engine seat, -1 for game events
	ActionType    string         `json:"actionType"`
	ActionPayload map[string]any `json:"actionPayload,omitempty"`
	Timestamp     int64          `json:"timestamp"`
}

// PublishGameAction appends a record to the action stream.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal action record: %w", err)
	}
	return Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: actionStream,
		Values: map[string]any{
			"gameId": rec.GameID.String(),
			"index":  rec.ActionIndex,
			"record": payload,
		},
	}).Err()
}

// RecentActions reads back the newest n entries for diagnostics.
func RecentActions(ctx context.Context, n int64) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, nil
	}
	msgs, err := Rdb.XRevRangeN(ctx, actionStream, "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: read action stream: %w", err)
	}
	out := make([]GameActionRecord, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["record"].(string)
		if !ok {
			continue
		}
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			logrus.Warnf("cache: skipping malformed record %s: %v", m.ID, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
