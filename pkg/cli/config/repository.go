package config

import (
	"context"
	"log/slog"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/repository/firestore"
	"github.com/caeleel/friendbook/pkg/repository/memory"
	"github.com/caeleel/friendbook/pkg/repository/redis"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	backendMemory    = "memory"
	backendRedis     = "redis"
	backendFirestore = "firestore"
)

// Repository holds CLI flags for the key-value backend
type Repository struct {
	backend    string
	redisURL   string
	projectID  string
	databaseID string
	collection string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kv-backend",
			Usage:       "Key-value backend type (memory, redis or firestore)",
			Category:    "Storage",
			Value:       backendMemory,
			Sources:     cli.EnvVars("FRIENDBOOK_KV_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL, e.g. redis://localhost:6379/0 (required when using redis backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("FRIENDBOOK_REDIS_URL"),
			Destination: &r.redisURL,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("FRIENDBOOK_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Storage",
			Value:       "(default)",
			Sources:     cli.EnvVars("FRIENDBOOK_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding the key-value documents",
			Category:    "Storage",
			Value:       firestore.DefaultCollection,
			Sources:     cli.EnvVars("FRIENDBOOK_FIRESTORE_COLLECTION"),
			Destination: &r.collection,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.Bool("redis_url.set", r.redisURL != ""),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.String("firestore_collection", r.collection),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a store based on the configured backend.
// The caller is responsible for calling Close() on the returned store.
func (r *Repository) Configure(ctx context.Context) (interfaces.KVStore, error) {
	switch r.backend {
	case backendMemory, "":
		logging.Default().Warn("Using in-memory store, data is lost on exit")
		return memory.New(), nil

	case backendRedis:
		if r.redisURL == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "redis-url is required when using redis backend", goerr.V(OptionKey, "redis-url"))
		}
		kv, err := redis.New(ctx, r.redisURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis store")
		}
		logging.Default().Info("Using Redis store")
		return kv, nil

	case backendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "firestore-project-id is required when using firestore backend", goerr.V(OptionKey, "firestore-project-id"))
		}
		kv, err := firestore.New(ctx, r.projectID, r.databaseID, firestore.WithCollection(r.collection))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore store")
		}
		logging.Default().Info("Using Firestore store",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"collection", r.collection,
		)
		return kv, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown backend", goerr.V(BackendKey, r.backend))
	}
}
