package cli

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/config"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/source"
	"github.com/matzehuels/storeblocks/pkg/submissions"
)

// newCache opens the configured cache backend.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the file cache directory: cache.dir when set, otherwise
// the XDG cache directory (~/.cache/storeblocks/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir(appName)
}

// newSource opens the configured page source. The GraphQL source shares
// the runner's cache for raw responses.
func newSource(ctx context.Context, cfg *config.Config, c cache.Cache, keyer cache.Keyer) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceGraphQL:
		return source.NewGraphQL(source.GraphQLOptions{
			Endpoint: cfg.Source.Endpoint,
			Token:    cfg.Source.Token,
			Query:    cfg.Source.Query,
			PagePath: cfg.Source.PagePath,
			Timeout:  cfg.Source.Timeout.Duration,
			Cache:    c,
			Keyer:    keyer,
		})
	case config.SourceMongo:
		return source.NewMongo(ctx, source.MongoOptions{
			URI:            cfg.Source.MongoURI,
			Database:       cfg.Source.Database,
			Collection:     cfg.Source.Collection,
			ConnectTimeout: connectTimeout,
		})
	default:
		return source.NewFile(cfg.Source.Dir)
	}
}

// submissionStore opens the configured submission store. The returned
// close function releases the store and any client it opened.
func submissionStore(ctx context.Context, cfg *config.Config) (submissions.Store, func(), error) {
	if cfg.Submissions.Backend != config.StoreMongo {
		store, err := submissions.NewFileStore(cfg.Submissions.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Source.MongoURI))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	store := submissions.NewMongoStore(client.Database(cfg.Source.Database).Collection(cfg.Submissions.Collection))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "prepare submission store")
	}
	return store, func() { _ = client.Disconnect(context.Background()) }, nil
}
