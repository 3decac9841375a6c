package bootstrap

import (
	"context"
	"time"

	"social_server/adapter/out/mongodb"
	"social_server/config"
	"social_server/core/port/out"
	"social_server/core/service/content"
	"social_server/core/service/feed"
	"social_server/core/service/social"
	"social_server/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds every wired component of the application.
type Dependencies struct {
	Config  *config.Config
	MongoDB *mongo.Client
	Redis   *redis.Client

	// Repositories
	UserRepo out.UserRepository
	PostRepo out.PostRepository

	// Services
	ContentService *content.Service
	SocialService  *social.Service
	FeedService    *feed.Service
}

// NewDependencies connects the backing stores and wires repositories and
// services. The returned cleanup closes connections in reverse order.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// MongoDB (entity store)
	client, err := mongodb.NewClient(cfg.MongoDBURL)
	if err != nil {
		return nil, nil, err
	}
	deps.MongoDB = client
	cleanups = append(cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect MongoDB: %v", err)
		}
	})

	db := client.Database(cfg.MongoDBName)
	userAdapter := mongodb.NewUserAdapter(db)
	postAdapter := mongodb.NewPostAdapter(db)
	deps.UserRepo = userAdapter
	deps.PostRepo = postAdapter

	// Index creation failure is not fatal; the feed query still works,
	// just without index support.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postAdapter.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure post indexes: %v", err)
	}

	// Redis (rate limiting + readiness); optional
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("Invalid REDIS_URL, rate limiting disabled: %v", err)
		} else {
			redisClient := redis.NewClient(opts)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis unreachable, rate limiting disabled: %v", err)
				redisClient.Close()
			} else {
				deps.Redis = redisClient
				cleanups = append(cleanups, func() {
					if err := redisClient.Close(); err != nil {
						logger.Error("Failed to close Redis: %v", err)
					}
				})
			}
		}
	}

	// Services
	deps.ContentService = content.NewService(deps.UserRepo, deps.PostRepo)
	deps.SocialService = social.NewService(deps.UserRepo, deps.PostRepo)
	deps.FeedService = feed.NewService(deps.UserRepo, deps.PostRepo)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return deps, cleanup, nil
}
