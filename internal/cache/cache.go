package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"subedit/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Video Cache Operations

// SetVideo caches video metadata
func (c *Cache) SetVideo(ctx context.Context, video *models.Video, ttl time.Duration) error {
	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	key := fmt.Sprintf("video:%s", video.ID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetVideo retrieves video metadata from cache
func (c *Cache) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	key := fmt.Sprintf("video:%s", videoID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get video from cache: %w", err)
	}

	var video models.Video
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}

	return &video, nil
}

// DeleteVideo removes video from cache
func (c *Cache) DeleteVideo(ctx context.Context, videoID string) error {
	key := fmt.Sprintf("video:%s", videoID)
	return c.client.Del(ctx, key).Err()
}

// Track Cache Operations
//
// Probing a container shells out to ffprobe, so discovered subtitle
// tracks are cached per video.

// SetTracks caches the subtitle track list for a video
func (c *Cache) SetTracks(ctx context.Context, videoID string, tracks []models.SubtitleTrack, ttl time.Duration) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal tracks: %w", err)
	}

	key := fmt.Sprintf("tracks:%s", videoID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetTracks retrieves the subtitle track list from cache. A nil slice
// with nil error means cache miss.
func (c *Cache) GetTracks(ctx context.Context, videoID string) ([]models.SubtitleTrack, error) {
	key := fmt.Sprintf("tracks:%s", videoID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get tracks from cache: %w", err)
	}

	var tracks []models.SubtitleTrack
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracks: %w", err)
	}

	return tracks, nil
}

// DeleteTracks removes the cached track list, used after an export
// changes the container
func (c *Cache) DeleteTracks(ctx context.Context, videoID string) error {
	key := fmt.Sprintf("tracks:%s", videoID)
	return c.client.Del(ctx, key).Err()
}

// Pending Operation Queue
//
// Queued operations live in Redis until the export job that applies
// them is created.

// SetPendingOps stores the pending operation queue for a video
func (c *Cache) SetPendingOps(ctx context.Context, videoID string, ops models.OperationList) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal operations: %w", err)
	}

	key := fmt.Sprintf("pending:%s", videoID)
	return c.client.Set(ctx, key, data, 0).Err()
}

// GetPendingOps retrieves the pending operation queue for a video. An
// empty list is returned when nothing is queued.
func (c *Cache) GetPendingOps(ctx context.Context, videoID string) (models.OperationList, error) {
	key := fmt.Sprintf("pending:%s", videoID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.OperationList{}, nil
		}
		return nil, fmt.Errorf("failed to get operations from cache: %w", err)
	}

	var ops models.OperationList
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operations: %w", err)
	}

	return ops, nil
}

// ClearPendingOps drops the pending operation queue for a video
func (c *Cache) ClearPendingOps(ctx context.Context, videoID string) error {
	key := fmt.Sprintf("pending:%s", videoID)
	return c.client.Del(ctx, key).Err()
}

// Job Cache Operations

// SetJob caches job metadata
func (c *Cache) SetJob(ctx context.Context, job *models.Job, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	key := fmt.Sprintf("job:%s", job.ID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetJob retrieves job metadata from cache
func (c *Cache) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	key := fmt.Sprintf("job:%s", jobID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get job from cache: %w", err)
	}

	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// DeleteJob removes job from cache
func (c *Cache) DeleteJob(ctx context.Context, jobID string) error {
	key := fmt.Sprintf("job:%s", jobID)
	return c.client.Del(ctx, key).Err()
}

// SetJobProgress caches job progress for quick retrieval
func (c *Cache) SetJobProgress(ctx context.Context, jobID string, progress float64, ttl time.Duration) error {
	key := fmt.Sprintf("job:progress:%s", jobID)
	return c.client.Set(ctx, key, progress, ttl).Err()
}

// GetJobProgress retrieves job progress from cache
func (c *Cache) GetJobProgress(ctx context.Context, jobID string) (float64, error) {
	key := fmt.Sprintf("job:progress:%s", jobID)
	return c.client.Get(ctx, key).Float64()
}

// Stats Cache Operations

// IncrementStat increments a statistic counter
func (c *Cache) IncrementStat(ctx context.Context, stat string) error {
	key := fmt.Sprintf("stats:%s", stat)
	return c.client.Incr(ctx, key).Err()
}

// GetStat retrieves a statistic value
func (c *Cache) GetStat(ctx context.Context, stat string) (int64, error) {
	key := fmt.Sprintf("stats:%s", stat)
	return c.client.Get(ctx, key).Int64()
}

// SetStat sets a statistic value
func (c *Cache) SetStat(ctx context.Context, stat string, value int64, ttl time.Duration) error {
	key := fmt.Sprintf("stats:%s", stat)
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Rate Limiting Operations

// CheckRateLimit checks if a rate limit has been exceeded
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	rateLimitKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := c.client.Incr(ctx, rateLimitKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// Set expiry on first request
	if count == 1 {
		if err := c.client.Expire(ctx, rateLimitKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set expiry: %w", err)
		}
	}

	return count <= limit, nil
}

// Locking Operations

// AcquireLock attempts to acquire a distributed lock
func (c *Cache) AcquireLock(ctx context.Context, resource string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resource)
	return c.client.SetNX(ctx, key, "locked", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Cache) ReleaseLock(ctx context.Context, resource string) error {
	key := fmt.Sprintf("lock:%s", resource)
	return c.client.Del(ctx, key).Err()
}

// Batch Operations

// DeletePattern deletes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Exists checks if a key exists
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// Health check
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
