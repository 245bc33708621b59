package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dunamismax/hypermedia/internal/cache"
	"github.com/dunamismax/hypermedia/internal/config"
	dom "github.com/dunamismax/hypermedia/internal/domain"
	"github.com/dunamismax/hypermedia/internal/repo"
	"github.com/dunamismax/hypermedia/internal/service"
	"github.com/dunamismax/hypermedia/internal/storage"
	"github.com/dunamismax/hypermedia/migrations"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Kind selects which web app a process serves.
type Kind string

const (
	KindTodo    Kind = "todo"
	KindGallery Kind = "gallery"
)

func (k Kind) title() string {
	if k == KindGallery {
		return "Image Gallery"
	}
	return "Todo App"
}

func (k Kind) migrations() migrations.Set {
	if k == KindGallery {
		return migrations.Gallery
	}
	return migrations.Todo
}

type App struct {
	cfg    config.Config
	kind   Kind
	log    *zap.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// New connects to Postgres (and Redis when configured), applies the app's
// migrations and builds the router.
func New(cfg config.Config, kind Kind, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, kind: kind, log: log}
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := migrations.Up(cfg.PG.DSN, kind.migrations()); err != nil {
		return nil, err
	}
	log.Info("migrations applied", zap.String("set", string(kind.migrations())))

	db, err := newPostgres(cfg.PG)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rdb
		log.Info("redis list cache enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Info("redis not configured, list cache disabled")
	}

	router, err := a.buildRouter()
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) buildRouter() (*gin.Engine, error) {
	ttl := a.cfg.Redis.DefaultTTL.Duration()
	switch a.kind {
	case KindTodo:
		var c service.ListCache[dom.Todo]
		if a.redis != nil {
			c = cache.NewTodoCache(a.redis, ttl)
		}
		svc := service.NewTodoService(repo.NewPGTodoRepo(a.db), c, a.log)
		return todoRouter(a.cfg, svc, a.ping, a.log)
	case KindGallery:
		store, err := storage.NewStore(a.cfg.Upload.Dir)
		if err != nil {
			return nil, err
		}
		var c service.ListCache[dom.Image]
		if a.redis != nil {
			c = cache.NewImageCache(a.redis, ttl)
		}
		svc := service.NewGalleryService(repo.NewPGImageRepo(a.db), store, c, a.log)
		return galleryRouter(a.cfg, svc, store.Dir(), a.ping, a.log)
	default:
		return nil, fmt.Errorf("unknown app kind %q", a.kind)
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) ping(ctx context.Context) error {
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases the Redis client and the Postgres pool.
func (a *App) Close(context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(pg config.PGConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = pg.MaxConns
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}
