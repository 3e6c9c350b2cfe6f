package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/api/bankability"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/api/config"
	coreconfig "github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/config"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/scenario"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default "+coreconfig.DefaultPath+")")
	flag.Parse()

	cfg, err := coreconfig.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	// Model store: Postgres when configured, JSON files otherwise
	storeMode := "file"
	if cfg.Database.URL != "" {
		if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
			fmt.Printf("[WARNING] Database unavailable, using file store: %v\n", err)
		} else {
			storeMode = "postgres"
			defer store.Close()
		}
	}
	models := store.NewModelRepo(store.GetPool(), cfg.Store.ModelDir)
	fmt.Printf("[STORE] Model store mode: %s\n", storeMode)

	// Result cache: Redis when reachable, in-memory otherwise
	var client *redis.Client
	if cfg.Redis.Address != "" {
		client, err = store.NewRedisClient(ctx, store.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			fmt.Printf("[WARNING] Redis unavailable, caching in memory: %v\n", err)
		} else {
			defer client.Close()
		}
	}
	cache := store.NewResultCache(client, cfg.CacheTTL())

	// Scenario library
	registry := scenario.Default()
	if n, err := scenario.LoadFromDirectory(registry, cfg.Scenarios.Dir); err != nil {
		fmt.Printf("[WARNING] Failed to load scenarios: %v\n", err)
		fmt.Println("  Falling back to built-in scenarios")
	} else {
		fmt.Printf("[SCENARIO] %d scenarios available (%d from %s)\n", registry.Count(), n, cfg.Scenarios.Dir)
	}

	mux := http.NewServeMux()

	configHandler := config.NewHandler(cfg, cache.Mode(), storeMode)
	mux.HandleFunc("GET /api/config", configHandler.HandleConfig)

	bankability.NewHandler(models, cache, registry, cfg.Options()).Register(mux)

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - GET    /api/config")
	fmt.Println("  - POST   /api/bankability/compute")
	fmt.Println("  - POST   /api/bankability/batch")
	fmt.Println("  - GET    /api/scenarios")
	fmt.Println("  - GET    /api/models  |  POST /api/models")
	fmt.Println("  - GET    /api/models/{id}  |  PUT  |  DELETE")
	fmt.Println("  - GET    /api/models/{id}/report")

	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
