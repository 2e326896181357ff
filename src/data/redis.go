package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix  = "nonce:"
	streamEvents = "daoconnect.events"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

func SetNonce(ctx context.Context, rdb *redis.Client, addr, nonce string) error {
	return rdb.Set(ctx, noncePrefix+addr, nonce, 5*time.Minute).Err()
}

func GetAndDelNonce(ctx context.Context, rdb *redis.Client, addr string) (string, error) {
	return rdb.GetDel(ctx, noncePrefix+addr).Result()
}

// PublishEvent appends a governance event to the shared stream consumed by
// the notifier.
func PublishEvent(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamEvents,
		Values: payload,
	}).Result()
	return err
}

// ReadEvents blocks until new events arrive after lastID and returns them
// with the id to resume from.
func ReadEvents(ctx context.Context, rdb *redis.Client, lastID string, block time.Duration) ([]redis.XMessage, string, error) {
	if lastID == "" {
		lastID = "$"
	}
	streams, err := rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{streamEvents, lastID},
		Block:   block,
	}).Result()
	if err != nil {
		return nil, lastID, err
	}
	var msgs []redis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	if len(msgs) > 0 {
		lastID = msgs[len(msgs)-1].ID
	}
	return msgs, lastID, nil
}
