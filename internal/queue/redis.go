package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// ParseRedisURL converts the redis.url setting into asynq connection options.
// Accepted forms are redis://[user:password@]host:port[/db] and the TLS
// variant rediss://.
func ParseRedisURL(redisURL string) (asynq.RedisClientOpt, error) {
	opts, err := parseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}

// NewRedisClient builds the go-redis client used by the transcript cache from
// the same URL the task queue connects with.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := parseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func parseURL(redisURL string) (*redis.Options, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}
