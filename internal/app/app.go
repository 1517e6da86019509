// Package app owns the explicit application state for one storefront
// session: session identity, cart, price gate, tracker and abandoned-cart
// monitor, wired through injection rather than global lookup.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/api"
	"github.com/nycolasmancini/pmcell-storefront/internal/cart"
	"github.com/nycolasmancini/pmcell-storefront/internal/config"
	"github.com/nycolasmancini/pmcell-storefront/internal/monitor"
	"github.com/nycolasmancini/pmcell-storefront/internal/session"
	"github.com/nycolasmancini/pmcell-storefront/internal/state"
	"github.com/nycolasmancini/pmcell-storefront/internal/tracker"
	"github.com/nycolasmancini/pmcell-storefront/internal/unlock"
)

type App struct {
	Logger    *zap.Logger
	State     state.Store
	SessionID string
	API       *api.Client
	Cart      *cart.Store
	Gate      *unlock.Gate
	Tracker   *tracker.Tracker
	Monitor   *monitor.Monitor

	redisClient *redis.Client
	kafkaSink   *tracker.KafkaSink
}

// New wires a session context from configuration: state store selection,
// session identity, API client, and the cart subscribers.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Logger: logger}

	switch {
	case cfg.Redis.Addr != "":
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		a.State = state.NewRedisStore(a.redisClient, cfg.ContextID)
	case cfg.StatePath != "":
		a.State = state.NewFileStore(cfg.StatePath)
	default:
		a.State = state.NewMemoryStore()
	}

	sessionID, err := session.NewProvider(a.State).GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	a.SessionID = sessionID

	a.API = api.NewClient(cfg.BackendURL, func(context.Context) (string, error) {
		return sessionID, nil
	}, logger)

	var sink tracker.Sink = tracker.NewAPISink(a.API)
	if len(cfg.Kafka.Brokers) > 0 {
		a.kafkaSink = tracker.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sink = a.kafkaSink
	}
	a.Tracker = tracker.New(sink, sessionID, logger)

	a.Cart = cart.NewStore(a.State)
	a.Gate = unlock.NewGate(a.State, a.API, a.Tracker)
	a.Monitor = monitor.New(a.Cart, a.API, monitor.TimerScheduler{}, sessionID, logger)

	a.Cart.Subscribe(a.Tracker.HandleCartChange)
	a.Cart.Subscribe(a.Monitor.HandleCartChange)

	return a, nil
}

// Start begins journey tracking for the session.
func (a *App) Start() {
	a.Tracker.Start()
}

// Close emits the exit event and releases timers and connections.
func (a *App) Close() error {
	a.Tracker.Close()
	a.Monitor.Stop()
	if a.kafkaSink != nil {
		if err := a.kafkaSink.Close(); err != nil {
			return err
		}
	}
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}
