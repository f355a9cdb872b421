package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	docchat "github.com/nevindra/docchat"
	"github.com/nevindra/docchat/frontend/cli"
	"github.com/nevindra/docchat/ingest"
	"github.com/nevindra/docchat/internal/config"
	"github.com/nevindra/docchat/observer"
	"github.com/nevindra/docchat/provider/azureopenai"
	"github.com/nevindra/docchat/searchindex"
	"github.com/nevindra/docchat/store/postgres"
	"github.com/nevindra/docchat/store/sqlite"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg := config.Load(os.Getenv("DOCCHAT_CONFIG"))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// 2. Create provider and search index
	var provider docchat.Provider = azureopenai.NewProvider(
		cfg.OpenAI.Endpoint, cfg.OpenAI.Deployment, cfg.OpenAI.APIKey,
		azureopenai.WithAPIVersion(cfg.OpenAI.APIVersion),
		azureopenai.WithTemperature(cfg.OpenAI.Temperature),
	)
	var index docchat.SearchIndex = searchindex.New(
		cfg.Search.Endpoint, cfg.Search.IndexName, cfg.Search.APIKey,
		searchindex.WithKeyField(cfg.Search.KeyField),
		searchindex.WithContentField(cfg.Search.ContentField),
		searchindex.WithLogger(logger),
	)

	// 3. Optional observability
	if cfg.Observer.Enabled {
		inst, shutdown, err := observer.Init(ctx)
		if err != nil {
			log.Fatalf("observer init: %v", err)
		}
		defer shutdown(ctx)
		provider = observer.WrapProvider(provider, cfg.OpenAI.Deployment, inst)
		index = observer.WrapIndex(index, cfg.Search.IndexName, inst)
	}

	// 4. Create history store
	var history docchat.HistoryStore
	switch cfg.History.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.History.PostgresURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()
		history = postgres.New(pool)
	default:
		history = sqlite.New(cfg.History.Path, sqlite.WithLogger(logger))
	}
	if err := history.Init(ctx); err != nil {
		log.Fatalf("history init: %v", err)
	}
	defer history.Close()

	// 5. Create app
	app := docchat.New(
		docchat.WithProvider(provider),
		docchat.WithIndex(index),
		docchat.WithSplitter(ingest.NewPipeline(
			ingest.WithChunker(ingest.NewLineChunker(ingest.WithMaxUnits(cfg.Chunker.MaxUnits))),
		)),
		docchat.WithHistory(history),
		docchat.WithTopK(cfg.Search.TopK),
		docchat.WithStatus(cli.PrintStatus),
		docchat.WithLogger(logger),
	)

	// 6. Run
	if err := cli.New(app).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
