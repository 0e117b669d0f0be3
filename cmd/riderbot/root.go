package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ridermall/riderbot/config"
	"github.com/ridermall/riderbot/requests"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "riderbot",
		Short:         "Rider Mall WhatsApp service bot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// openStore builds the configured request store. The returned closer
// releases the underlying connection and is a no-op for memory.
func openStore(ctx context.Context, cfg config.Config) (requests.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return requests.NewMemoryStore(), func() {}, nil

	case config.DriverPostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := requests.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, func() { db.Close() }, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		collection := client.Database(cfg.MongoDB).Collection("service_requests")
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return requests.NewMongoStore(collection), closer, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
