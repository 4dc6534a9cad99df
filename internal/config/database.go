package config

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/redisclient"
)

var (
	// MongoDB holds the portal database (notice drafts)
	MongoDB *mongo.Database
	// Redis is the traced Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logging.Logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logging.Logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := ensureIndexes(ctx); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("Connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
}

// ensureIndexes creates the indexes the draft store relies on. One draft per
// admin CPF, expired drafts swept by Mongo itself.
func ensureIndexes(ctx context.Context) error {
	drafts := MongoDB.Collection(AppConfig.NoticeDraftCollection)
	_, err := drafts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32((7 * 24 * time.Hour).Seconds())),
		},
	})
	return err
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logging.Logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	Redis = redisclient.NewClient(redisClient)

	logging.Logger.Info("Connected to Redis", zap.String("addr", AppConfig.RedisURI))
}

// maskMongoURI hides credentials embedded in a MongoDB URI
func maskMongoURI(uri string) string {
	if at := strings.Index(uri, "@"); at != -1 {
		if scheme := strings.Index(uri, "://"); scheme != -1 {
			return uri[:scheme+3] + "***:***" + uri[at:]
		}
	}
	return uri
}
