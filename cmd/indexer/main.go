// Command indexer rebuilds the vector indexes from the database and
// the knowledge base without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/application/genai"
	"github.com/skute123/genai-defect-management/internal/infrastructure/chunking"
	"github.com/skute123/genai-defect-management/internal/infrastructure/config"
	"github.com/skute123/genai-defect-management/internal/infrastructure/embedding"
	"github.com/skute123/genai-defect-management/internal/infrastructure/logger"
	"github.com/skute123/genai-defect-management/internal/infrastructure/persistence"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
)

func main() {
	mode := flag.String("mode", "defects", "what to index: defects or docs")
	force := flag.Bool("force", false, "reindex even when the store looks current")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	embedder := embedding.NewClient(cfg.Embedding)
	ctx := context.Background()

	switch *mode {
	case "defects":
		db, err := persistence.NewDatabase(cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		store, err := vectorstore.NewCollection(cfg.VectorStore.Dir, "defects")
		if err != nil {
			log.Fatal("Failed to open defect vector store", zap.Error(err))
		}

		svc := genai.NewSimilarityService(persistence.NewGormDefectRepository(db.DB), embedder, store, log)
		report, err := svc.IndexDefects(ctx, *force)
		if err != nil {
			log.Fatal("Defect indexing failed", zap.Error(err))
		}
		log.Info("Defect indexing done",
			zap.Int("indexed", report.Indexed),
			zap.Bool("skipped", report.Skipped))

	case "docs":
		store, err := vectorstore.NewCollection(cfg.VectorStore.Dir, "documents")
		if err != nil {
			log.Fatal("Failed to open document vector store", zap.Error(err))
		}

		svc := genai.NewDocumentService(embedder, store, chunking.NewChunker(500, 50), cfg.KnowledgeBase.Dir, log)
		report, err := svc.IndexKnowledgeBase(ctx)
		if err != nil {
			log.Fatal("Knowledge base indexing failed", zap.Error(err))
		}
		log.Info("Knowledge base indexing done", zap.Int("chunks", report.Indexed))

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q, expected defects or docs\n", *mode)
		os.Exit(2)
	}
}
