package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"ambient-chat/ai"
	"ambient-chat/api"
	"ambient-chat/moderation"
	"ambient-chat/observability"
	"ambient-chat/personas"
	"ambient-chat/projection"
	"ambient-chat/repositories"
	"ambient-chat/runtime"
	"ambient-chat/runtime/workers"
	"ambient-chat/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting so every defer executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	indexWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = indexWriter.Close()
	}()

	// 3. Repositories
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	roomRepository, err := repositories.NewRoomRepository(db, messageRepository, log)
	if err != nil {
		return fmt.Errorf("room repository failed: %w", err)
	}
	defer func() {
		_ = roomRepository.Release()
	}()
	searchRepository := repositories.NewSearchRepository(indexWriter, log)

	// 4. Personas & Moderation
	catalog, err := personas.NewCatalog()
	if err != nil {
		return fmt.Errorf("persona catalog failed: %w", err)
	}
	censored, err := runtime.LoadEmbeddedCensored()
	if err != nil {
		return fmt.Errorf("censored words loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, config.ModerationCharReplacement)
	if err != nil {
		return fmt.Errorf("moderator failed: %w", err)
	}
	log.Info("Moderation ready", "languages", censored.Languages, "words", len(censored.Words))

	// 5. AI clients
	generationClient := ai.NewClient(config.OpenAIBaseURL, config.OpenAIAPIKey,
		config.GenerationModel, config.GenerationTimeout)
	classificationClient := ai.NewClient(config.OpenAIBaseURL, config.OpenAIAPIKey,
		config.GenerationModel, config.ClassificationTimeout)
	generator := ai.NewGenerator(generationClient)
	classifier := ai.NewToneClassifier(classificationClient, log)

	// 6. Engine
	monitor := observability.NewMonitor(log)
	registry := runtime.NewRegistry()
	rnd := runtime.NewTimeSource()
	scheduler := runtime.NewScheduler(catalog, classifier, rnd, config.MysteryResponses, log)
	orchestrator := runtime.NewOrchestrator(log, catalog, scheduler, registry,
		messageRepository, generator, moderator, monitor, rnd, config.SinkTimeout)

	timeline := projection.NewTimeline(config.TimelineCapacity)
	orchestrator.Add(sink.NewIndexSink(searchRepository, log), timeline)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	orchestrator.Start(ctx)

	// 8. Supervised Workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(monitor, config.MetricInterval, log))
	go sup.Run(ctx)

	// 9. HTTP & Websocket Server
	server := api.NewServer(log, orchestrator, roomRepository, messageRepository,
		searchRepository, catalog, timeline, monitor, config.ConnectionBufferSize, ctx)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Router()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 10. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 11. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	orchestrator.Drain(config.DrainTimeout)
	log.Info("Program stopped cleanly")

	return nil
}
