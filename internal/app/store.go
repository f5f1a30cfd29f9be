package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/vitorfontenele/videos-api/internal/config"
	"github.com/vitorfontenele/videos-api/internal/db"
	"github.com/vitorfontenele/videos-api/internal/repositories"
)

// openStore connects the configured backend, makes sure the videos table
// exists, and returns a function releasing its resources.
func openStore(ctx context.Context, cfg config.Config) (repositories.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, db.Options{
			URL:            cfg.Postgres.URL,
			MaxConns:       int32(cfg.Postgres.MaxConns),
			ConnectTimeout: cfg.Postgres.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewPostgresVideoRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewSQLiteVideoRepository(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return repo, func() {
			if err := conn.Close(); err != nil {
				slog.Warn("close sqlite database", "error", err)
			}
		}, nil

	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
			}
		})
		repo, err := repositories.NewDynamoDBVideoRepository(client, cfg.DynamoDB.Table)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureTable(ctx); err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case config.DriverMemory:
		return repositories.NewInMemoryVideoStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
