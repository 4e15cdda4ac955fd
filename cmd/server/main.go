package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appdefect "github.com/skute123/genai-defect-management/internal/application/defect"
	"github.com/skute123/genai-defect-management/internal/application/genai"
	appimport "github.com/skute123/genai-defect-management/internal/application/importing"
	"github.com/skute123/genai-defect-management/internal/infrastructure/cache"
	"github.com/skute123/genai-defect-management/internal/infrastructure/chunking"
	"github.com/skute123/genai-defect-management/internal/infrastructure/config"
	"github.com/skute123/genai-defect-management/internal/infrastructure/embedding"
	"github.com/skute123/genai-defect-management/internal/infrastructure/llm"
	"github.com/skute123/genai-defect-management/internal/infrastructure/logger"
	"github.com/skute123/genai-defect-management/internal/infrastructure/persistence"
	"github.com/skute123/genai-defect-management/internal/infrastructure/scheduler"
	"github.com/skute123/genai-defect-management/internal/infrastructure/telemetry"
	"github.com/skute123/genai-defect-management/internal/infrastructure/vectorstore"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/handler"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/middleware"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Starting defect portal",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment))

	tele, err := telemetry.Setup(cfg.Telemetry)
	if err != nil {
		log.Fatal("Failed to set up telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	defectRepo := persistence.NewGormDefectRepository(db.DB)
	appCache := cache.New(cfg.Redis)

	defectStore, err := vectorstore.NewCollection(cfg.VectorStore.Dir, "defects")
	if err != nil {
		log.Fatal("Failed to open defect vector store", zap.Error(err))
	}
	documentStore, err := vectorstore.NewCollection(cfg.VectorStore.Dir, "documents")
	if err != nil {
		log.Fatal("Failed to open document vector store", zap.Error(err))
	}

	embedder := embedding.NewClient(cfg.Embedding)
	generator := llm.NewWithFallback(llm.NewOllamaClient(cfg.LLM))
	chunker := chunking.NewChunker(500, 50)

	queries := appdefect.NewQueryService(defectRepo, log)
	analytics := appdefect.NewAnalyticsService(defectRepo, appCache, log)
	similarity := genai.NewSimilarityService(defectRepo, embedder, defectStore, log)
	documents := genai.NewDocumentService(embedder, documentStore, chunker, cfg.KnowledgeBase.Dir, log)
	suggester := genai.NewResolutionSuggester(generator, log)
	summarizer := genai.NewContextSummarizer(generator, log)
	enhanced := genai.NewEnhancedSearchService(similarity, documents, suggester, summarizer, log)
	imports := appimport.NewImportService(defectRepo, log)

	r := router.New(cfg, log)
	r.Register(
		handler.NewHealthHandler(db, cfg.App.Version),
		handler.NewDefectHandler(queries),
		handler.NewAnalyticsHandler(analytics),
		handler.NewGenAIHandler(similarity, documents, enhanced, suggester),
	)
	r.RegisterProtected(middleware.JWTAuth(cfg.JWT),
		handler.NewAdminHandler(imports, similarity, documents),
	)

	sched := scheduler.New(log)
	if cfg.Scheduler.Enabled {
		sched.Register(scheduler.Job{
			Name:     "reindex-defects",
			Interval: cfg.Scheduler.ReindexInterval,
			Run: func(ctx context.Context) error {
				_, err := similarity.IndexDefects(ctx, false)
				return err
			},
		})
		sched.Start(context.Background())
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := tele.Shutdown(ctx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}
	if err := defectStore.Save(); err != nil {
		log.Warn("Failed to persist defect index", zap.Error(err))
	}
	if err := documentStore.Save(); err != nil {
		log.Warn("Failed to persist document index", zap.Error(err))
	}
	log.Info("Stopped")
}
