// Package app wires the ledger's infrastructure for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/tontine-ledger/internal/config"
	"github.com/segyhp/tontine-ledger/internal/jobs"
	"github.com/segyhp/tontine-ledger/internal/notify"
	"github.com/segyhp/tontine-ledger/internal/repository"
	"github.com/segyhp/tontine-ledger/internal/service"
	"github.com/segyhp/tontine-ledger/pkg/log"
)

// App holds the shared connections and the ledger service
type App struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client // nil when no redis endpoint is configured
	Service *service.LedgerService
	Jobs    *jobs.LedgerJobs
}

// InitLogging configures the global logger from the config
func InitLogging(cfg *config.Config) {
	log.Init(log.Config{
		Level:      log.Level(cfg.Logging.Level),
		JSONOutput: cfg.Logging.Format == "json",
	})
}

// New connects to postgres and, when configured, redis
func New(cfg *config.Config) (*App, error) {
	db, err := InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := initRedis(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	var (
		notifier notify.Notifier
		locker   jobs.Locker
	)
	if redisClient != nil {
		notifier = notify.NewRedisNotifier(redisClient, cfg.Business.NotificationChannel)
		locker = jobs.NewRedisLocker(redisClient)
	} else {
		log.Logger.Warn().Msg("redis not configured, notifications go to the log and job locks are process local")
		notifier = notify.NewLogNotifier(log.WithComponent("notify"))
		locker = jobs.NewLocalLocker()
	}

	ledger := service.NewLedgerService(repository.NewStore(db), notifier, cfg)

	return &App{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Service: ledger,
		Jobs:    jobs.NewLedgerJobs(ledger, jobs.NewRunner(locker, cfg.GetJobLockTTL())),
	}, nil
}

// Close releases the connections
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	a.DB.Close()
}

func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.RedisEnabled() {
		return nil, nil
	}

	var opts *redis.Options
	if cfg.Redis.URL != "" {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
