// Command folio is the portfolio search CLI. It wires the file-backed
// stores, the embedding pipeline, and the vector index together and
// hands control to the command tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/folio-labs/folio-cli/internal/adapters/driven/config/file"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/cached"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/local"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/embedding/openai"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/storage/sqlite"
	"github.com/folio-labs/folio-cli/internal/adapters/driven/storage/xmlfile"
	"github.com/folio-labs/folio-cli/internal/adapters/driving/cli"
	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/services"
	"github.com/folio-labs/folio-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := xmlfile.NewStore(cfg.GetString(file.KeyPortfolioPath))
	if err != nil {
		return fmt.Errorf("opening portfolio store: %w", err)
	}
	defer store.Close()

	mirror := openMirror(ctx, cfg, store)
	if mirror != nil {
		defer mirror.Close()
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("configuring embeddings: %w", err)
	}
	defer embedder.Close()

	index := services.NewVectorIndex(embedder)
	search := services.NewSearchService(store, index)

	// Build the index in the background so the first command does not
	// wait on embedding every entry.
	go func() {
		portfolios, err := store.GetPortfolios(ctx)
		if err != nil {
			logger.Warn("Initial portfolio load failed: %v", err)
			return
		}
		if err := index.Rebuild(ctx, portfolios); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Initial index build failed: %v", err)
		}
	}()

	// External edits to the portfolio file invalidate the index.
	if err := store.EnableWatch(); err != nil {
		logger.Warn("File watching unavailable: %v", err)
	} else {
		go func() {
			for range store.Watch() {
				portfolios, err := store.GetPortfolios(ctx)
				if err != nil {
					continue
				}
				if err := index.Rebuild(ctx, portfolios); err != nil {
					logger.Warn("Index rebuild after file change failed: %v", err)
				}
				saveMirror(ctx, mirror, store)
			}
		}()
	}

	cli.SetServices(cli.Services{
		Search:    search,
		Indexer:   index,
		Portfolio: store,
		Config:    cfg,
	})

	return cli.Execute()
}

// newEmbedder builds the embedding pipeline: remote embeddings with a
// local fallback when a key is present, purely local otherwise. The
// fallback always matches the primary's dimensions so cached vectors
// stay comparable.
func newEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	apiKey := os.Getenv(cli.APIKeyEnvVar)
	if apiKey == "" {
		return cached.NewEmbeddingService(nil, local.NewEmbeddingService())
	}

	remote, err := openai.NewEmbeddingService(openai.Config{
		APIKey:     apiKey,
		Model:      cfg.GetString(file.KeyEmbeddingModel),
		Dimensions: cfg.GetInt(file.KeyEmbeddingDimensions),
	})
	if err != nil {
		return nil, err
	}

	fallback := local.NewEmbeddingServiceWithDimensions(remote.Dimensions())
	return cached.NewEmbeddingService(remote, fallback)
}

// openMirror restores the portfolio tree from the mirror snapshot when
// the portfolio file is empty, and refreshes the snapshot otherwise.
// The mirror is best-effort; failures never block startup.
func openMirror(ctx context.Context, cfg driven.ConfigStore, store *xmlfile.Store) *sqlite.MirrorStore {
	if !cfg.GetBool(file.KeyMirrorEnabled) {
		return nil
	}

	mirror, err := sqlite.NewMirrorStore("")
	if err != nil {
		logger.Warn("Mirror unavailable: %v", err)
		return nil
	}

	portfolios, err := store.GetPortfolios(ctx)
	if err == nil && len(portfolios) == 0 {
		snapshot, _, loadErr := mirror.Load(ctx)
		if loadErr == nil {
			if restoreErr := store.RestoreSnapshot(snapshot); restoreErr != nil {
				logger.Warn("Mirror restore failed: %v", restoreErr)
			} else {
				logger.Info("Restored portfolio tree from mirror snapshot")
			}
		} else if !errors.Is(loadErr, domain.ErrNotFound) {
			logger.Warn("Mirror load failed: %v", loadErr)
		}
		return mirror
	}

	saveMirror(ctx, mirror, store)
	return mirror
}

func saveMirror(ctx context.Context, mirror *sqlite.MirrorStore, store *xmlfile.Store) {
	if mirror == nil {
		return
	}
	snapshot, err := store.Snapshot()
	if err != nil {
		logger.Warn("Mirror snapshot failed: %v", err)
		return
	}
	if err := mirror.Save(ctx, snapshot); err != nil {
		logger.Warn("Mirror save failed: %v", err)
	}
}
