package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ticker/api/feed"
	"ticker/config"
	"ticker/domain/alert"
	"ticker/domain/leaderboard"
	"ticker/domain/market"
	"ticker/domain/portfolio"
	"ticker/infra/kafka"
	"ticker/infra/outbox"
	"ticker/infra/quotecache"
	"ticker/jobs/broadcaster"
	"ticker/jobs/simulator"
	"ticker/service"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	// ---------------- Domain ----------------

	store := market.NewPriceStore()
	for _, seed := range config.DefaultUniverse() {
		store.Add(market.NewStock(seed.Symbol, seed.Name, seed.Price))
	}

	svc := service.NewMarketService(
		log,
		service.RealClock{},
		store,
		leaderboard.NewBoard(cfg.Market.LeaderboardCap, cfg.Market.RecencyWindow),
		alert.NewEngine(),
		portfolio.NewLedger(cfg.Market.StartingCash),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Event outbox + broadcaster ----------------

	if cfg.Outbox.Enabled {
		ob, err := outbox.Open(cfg.Outbox.Dir)
		if err != nil {
			log.Fatal("outbox open failed", zap.Error(err))
		}
		defer ob.Close()
		svc.Outbox = ob

		if cfg.Kafka.Enabled {
			bc, err := broadcaster.New(log, ob, cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
			if err != nil {
				log.Fatal("broadcaster init failed", zap.Error(err))
			}
			defer bc.Close()
			bc.Start(ctx)
		}
	}

	// ---------------- Tick publishing ----------------

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TickTopic)
		defer producer.Close()
		svc.Ticks = producer
	}

	if cfg.Redis.Enabled {
		cache := quotecache.New(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
		defer cache.Close()
		svc.QuoteCache = cache
	}

	// ---------------- WebSocket feed ----------------

	if cfg.Feed.Enabled {
		hub := feed.NewHub(log)
		go hub.Run(ctx)
		svc.Feed = hub

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		go func() {
			log.Info("feed listening", zap.String("addr", cfg.Feed.Addr))
			if err := http.ListenAndServe(cfg.Feed.Addr, mux); err != nil {
				log.Error("feed server exited", zap.Error(err))
			}
		}()
	}

	// ---------------- Console ----------------

	newSim := func() *simulator.Simulator {
		return simulator.New(
			log,
			svc,
			simulator.RealClock{},
			simulator.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))},
			cfg.Market.TickInterval,
		)
	}

	repl := newRepl(os.Stdin, os.Stdout, svc, newSim)
	repl.run()
}
