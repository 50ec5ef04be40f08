package database

import (
	"context"
	"fmt"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/config"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Mongo is the global document store client
var Mongo *mongo.Client

// InitMongo connects to MongoDB and prepares the question collection
func InitMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Database, error) {
	log := logger.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	Mongo = client

	db := client.Database(cfg.Database)

	// one thread per product
	_, err = db.Collection(store.QuestionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question index: %w", err)
	}

	log.Info("MongoDB connected successfully", zap.String("database", cfg.Database))
	return db, nil
}

// PingMongo checks that the document store answers
func PingMongo(ctx context.Context) error {
	if Mongo == nil {
		return fmt.Errorf("mongo is not initialized")
	}
	return Mongo.Ping(ctx, readpref.Primary())
}

// CloseMongo disconnects the document store client
func CloseMongo(ctx context.Context) error {
	if Mongo == nil {
		return nil
	}
	return Mongo.Disconnect(ctx)
}
