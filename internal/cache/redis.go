package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

var (
	redisClient *redis.Client
	enabled     bool
)

const latestTTL = 2 * time.Hour

// Initialize sets up the Redis connection if REDIS_URL is provided.
// Without a URL the cache is disabled and all operations become no-ops;
// callers fall back to the store.
func Initialize(redisURL string) {
	if redisURL == "" {
		logrus.Info("Redis URL not provided, latest-position caching disabled")
		enabled = false
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.WithError(err).Warn("Failed to parse Redis URL, caching disabled")
		enabled = false
		return
	}

	redisClient = redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to connect to Redis, caching disabled")
		enabled = false
		return
	}

	enabled = true
	logrus.Info("Redis cache initialized")
}

// Close closes the Redis connection
func Close() {
	if redisClient != nil {
		redisClient.Close()
	}
}

func latestKey(subjectID string) string {
	return "latest_position:" + subjectID
}

// SetLatestPosition caches the most recent sample for a subject
func SetLatestPosition(ctx context.Context, sample *models.PositionSample) error {
	if !enabled {
		return nil
	}

	data, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, latestKey(sample.SubjectID), data, latestTTL).Err()
}

// LatestPosition retrieves the cached latest sample for a subject.
// Returns nil, nil on a cache miss or when caching is disabled.
func LatestPosition(ctx context.Context, subjectID string) (*models.PositionSample, error) {
	if !enabled {
		return nil, nil
	}

	data, err := redisClient.Get(ctx, latestKey(subjectID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sample models.PositionSample
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}
