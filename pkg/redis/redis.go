package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

// IRedis keeps the live-dashboard view of call activity. The in-memory
// call registry is authoritative within the process; this cache lets a
// separate dashboard poll active/completed status without hitting the
// registry or the database.
type IRedis interface {
	SetCallStatus(ctx context.Context, callID string, status string, expiration time.Duration) error
	GetCallStatus(ctx context.Context, callID string) (string, error)
	DeleteCallStatus(ctx context.Context, callID string) error
}

var ErrStatusNotFound = errors.New("call status not found")

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func statusKey(callID string) string {
	return "call_status:" + callID
}

func (r *redisClient) SetCallStatus(ctx context.Context, callID string, status string, expiration time.Duration) error {
	err := r.client.Set(ctx, statusKey(callID), status, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error setting status for call %s: %v", callID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetCallStatus(ctx context.Context, callID string) (string, error) {
	val, err := r.client.Get(ctx, statusKey(callID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStatusNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting status for call %s: %v", callID, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteCallStatus(ctx context.Context, callID string) error {
	if _, err := r.client.Del(ctx, statusKey(callID)).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting status for call %s: %v", callID, err))
		return err
	}
	return nil
}
