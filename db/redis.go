// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
)

var (
	RedisClient *redis.Client
	memoryRedis *miniredis.Miniredis
)

const (
	stationDirectoryKey     = "stationgate:directory"
	modulePermissionsKey    = "stationgate:module-permissions"
	directoryChangedChannel = "stationgate:directory-changed"
)

// InitRedis connects the shared cache. Mode "memory" runs an embedded
// miniredis, used for development and tests; anything else dials the
// configured server.
func InitRedis() error {
	if viper.GetString("redis.mode") == "memory" {
		var err error
		memoryRedis, err = miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded redis: %w", err)
		}
		RedisClient = redis.NewClient(&redis.Options{Addr: memoryRedis.Addr()})
		logger.Info("Using embedded in-memory Redis", zap.String("addr", memoryRedis.Addr()))
		return nil
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
	if memoryRedis != nil {
		memoryRedis.Close()
		memoryRedis = nil
	}
}

// CacheStationDirectory stores the latest directory snapshot so freshly
// started portal processes can serve a warm first paint.
func CacheStationDirectory(ctx context.Context, stations []model.Station) error {
	data, err := json.Marshal(stations)
	if err != nil {
		return fmt.Errorf("failed to marshal station directory: %w", err)
	}

	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	if err := RedisClient.Set(ctx, stationDirectoryKey, data, defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache station directory: %w", err)
	}

	logger.Debug("Station directory cached", zap.Int("stations", len(stations)))
	return nil
}

// GetCachedStationDirectory returns the shared snapshot, or nil when absent.
func GetCachedStationDirectory(ctx context.Context) ([]model.Station, error) {
	data, err := RedisClient.Get(ctx, stationDirectoryKey).Result()
	if err == redis.Nil {
		logger.Debug("Station directory not found in cache")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get station directory from cache: %w", err)
	}

	var stations []model.Station
	if err := json.Unmarshal([]byte(data), &stations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal station directory: %w", err)
	}
	return stations, nil
}

// InvalidateStationDirectory drops the shared snapshot.
func InvalidateStationDirectory(ctx context.Context) error {
	if err := RedisClient.Del(ctx, stationDirectoryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate station directory: %w", err)
	}
	logger.Debug("Station directory cache invalidated")
	return nil
}

// CacheModulePermissions stores the registry snapshot.
func CacheModulePermissions(ctx context.Context, rows []model.ModulePermission) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal module permissions: %w", err)
	}

	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	if err := RedisClient.Set(ctx, modulePermissionsKey, data, defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache module permissions: %w", err)
	}

	logger.Debug("Module permissions cached", zap.Int("rows", len(rows)))
	return nil
}

// InvalidateModulePermissions drops the registry snapshot.
func InvalidateModulePermissions(ctx context.Context) error {
	if err := RedisClient.Del(ctx, modulePermissionsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate module permissions: %w", err)
	}
	logger.Debug("Module permissions cache invalidated")
	return nil
}

// PublishDirectoryChanged tells every other portal process that a mutation
// landed so they can force-refresh their in-process caches.
func PublishDirectoryChanged(ctx context.Context, entity string) error {
	if err := RedisClient.Publish(ctx, directoryChangedChannel, entity).Err(); err != nil {
		return fmt.Errorf("failed to publish directory change: %w", err)
	}
	return nil
}

// SubscribeDirectoryChanged delivers cross-process change signals to handler
// until ctx is cancelled. Runs in its own goroutine.
func SubscribeDirectoryChanged(ctx context.Context, handler func(entity string)) {
	sub := RedisClient.Subscribe(ctx, directoryChangedChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(msg.Payload)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RateLimit implements a sliding-window counter for the HTTP middleware.
func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
