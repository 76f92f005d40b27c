package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/access"
	"github.com/Jasmitha1474/women-safety-app/internal/config"
	"github.com/Jasmitha1474/women-safety-app/internal/discovery"
	"github.com/Jasmitha1474/women-safety-app/internal/dispatch"
	"github.com/Jasmitha1474/women-safety-app/internal/location"
	"github.com/Jasmitha1474/women-safety-app/internal/mqtt"
	"github.com/Jasmitha1474/women-safety-app/internal/profile"
	"github.com/Jasmitha1474/women-safety-app/internal/remote"
	"github.com/Jasmitha1474/women-safety-app/internal/session"
	"github.com/Jasmitha1474/women-safety-app/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App wires the client components from configuration.
type App struct {
	config *config.Config
	logger *zap.Logger

	redisClient *redis.Client
	db          *sql.DB
	mqttClient  *mqtt.Client

	Remote    *remote.Client
	Profiles  *profile.Store
	Gate      *access.Gate
	Editor    *access.Editor
	Location  *location.Service
	Discovery *discovery.Discovery
}

// New connects the configured store backend and, when enabled, the MQTT
// broker, then loads the local profile.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{config: cfg, logger: logger}

	// 1. local store
	var kv store.KV
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := store.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		pg := store.NewPostgresKV(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		kv = pg
	default:
		a.redisClient = store.NewRedisClient(&cfg.Redis)
		if err := store.Ping(ctx, a.redisClient); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		kv = store.NewRedisKV(a.redisClient)
	}

	// 2. outcome stream
	if cfg.MQTT.Enabled {
		c, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mqttClient = c
	}

	if err := a.build(ctx, kv); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, kv store.KV) error {
	cfg := a.config

	a.Remote = remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout, a.logger)

	a.Profiles = profile.NewStore(kv, a.Remote, cfg.Store.Key, a.logger)
	if _, err := a.Profiles.LoadLocal(ctx); err != nil {
		return err
	}

	a.Gate = access.NewGate(a.Profiles, a.logger)
	a.Editor = access.NewEditor(a.Gate, a.Profiles)

	var provider location.Provider
	if cfg.Location.Configured {
		provider = location.NewStaticProvider(cfg.Location.Lat, cfg.Location.Lng, cfg.Location.Accuracy)
	}
	a.Location = location.NewService(provider, a.logger)

	searcher := discovery.NewPlacesSearcher(cfg.Places.BaseURL, cfg.Places.APIKey, cfg.Places.Timeout, a.logger)
	a.Discovery = discovery.New(searcher, cfg.Places.RadiusMeters, a.logger)

	return nil
}

// NewSession opens a screen session with its own dispatcher. Extra sinks
// receive alert outcomes in addition to the MQTT stream.
func (a *App) NewSession(sinks ...dispatch.OutcomeSink) *session.Session {
	if a.mqttClient != nil {
		sinks = append(sinks, dispatch.NewMQTTSink(a.mqttClient, a.config.MQTT.TopicPrefix, a.config.MQTT.QoS))
	}

	var dialer dispatch.Dialer
	if a.config.Dispatch.FallbackCall {
		dialer = dispatch.NewLogDialer(a.logger)
	}

	disp := dispatch.New(a.Remote, a.Profiles, dialer, dispatch.Options{
		FallbackCall:  a.config.Dispatch.FallbackCall,
		FallbackDelay: a.config.Dispatch.FallbackDelay,
	}, a.logger, sinks...)

	return session.New(a.Location, a.Discovery, disp, a.logger)
}

// FallbackDelay how long after a successful send the fallback call is
// placed, zero when fallback calls are disabled.
func (a *App) FallbackDelay() time.Duration {
	if !a.config.Dispatch.FallbackCall {
		return 0
	}
	return a.config.Dispatch.FallbackDelay
}

// TopicPrefix root of the outcome stream topics.
func (a *App) TopicPrefix() string {
	return a.config.MQTT.TopicPrefix
}

// MQTT returns the broker client, nil when the outcome stream is disabled.
func (a *App) MQTT() *mqtt.Client {
	return a.mqttClient
}

// Close releases every connection opened by New.
func (a *App) Close() {
	if a.mqttClient != nil {
		a.mqttClient.Disconnect()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
