package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/discovery"
	"github.com/scrypster/prospect/internal/llm"
	"github.com/scrypster/prospect/internal/server"
	"github.com/scrypster/prospect/internal/storage"
	"github.com/scrypster/prospect/internal/storage/postgres"
	"github.com/scrypster/prospect/internal/storage/sqlite"
	"github.com/scrypster/prospect/web/handlers"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	generator, err := llm.NewTextGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize text generator: %v", err)
	}
	embedder, err := llm.NewEmbeddingGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize embedding generator: %v", err)
	}

	retriever, err := discovery.NewCandidateRetriever(embedder, store, cfg.Discovery.CandidateLimit, cfg.Discovery.EmbeddingCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize retriever: %v", err)
	}
	assembler := discovery.NewResultAssembler(store, store, cfg.Discovery.LinkedInSourceName, cfg.Discovery.TopEvidencePerCategory)
	wsHub := handlers.NewWebSocketHub(cfg)
	pipeline := discovery.NewPipeline(discovery.NewQueryParser(generator), retriever, assembler, store, cfg.Discovery, wsHub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := server.Start(ctx, cfg, store, pipeline, wsHub)
	log.Printf("Prospect API running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Engine == "sqlite" {
		return sqlite.NewStore(cfg.Storage.SQLitePath)
	}
	return postgres.NewStore(cfg.Storage.PostgresDSN)
}
