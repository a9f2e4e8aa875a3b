package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/config"
)

// ConnectMongo dials the credential store and pings it before handing the
// database back. The client is returned too so main can disconnect it on
// shutdown.
func ConnectMongo(cfg config.MongoCfg, logger *zap.Logger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout))
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("mongo connected",
		zap.String("database", cfg.Database),
		zap.Duration("connect_timeout", time.Duration(cfg.ConnectTimeout)),
	)
	return client.Database(cfg.Database), client, nil
}
