package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"
	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	discordclient "github.com/Curva95/discord-bot/clients/discord"
	"github.com/Curva95/discord-bot/config"
	"github.com/Curva95/discord-bot/db"
	"github.com/Curva95/discord-bot/handlers"
	"github.com/Curva95/discord-bot/middleware"
	"github.com/Curva95/discord-bot/services/auditlog"
	"github.com/Curva95/discord-bot/services/bindings"
	"github.com/Curva95/discord-bot/services/settings"
	"github.com/Curva95/discord-bot/services/txmanager"
	"github.com/Curva95/discord-bot/usecases/admin"
	"github.com/Curva95/discord-bot/usecases/reactions"
)

type Options struct {
	MigrateOnly             bool `long:"migrate-only" description:"Create the database schema and exit"`
	SkipCommandRegistration bool `long:"skip-command-registration" description:"Do not overwrite slash commands when the bot connects"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "discord-bot",
		LogsURL:     cfg.ServerLogsURL,
	})

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if cfg.AutoMigrate || opts.MigrateOnly {
		if err := db.EnsureSchema(context.Background(), dbConn, cfg.DatabaseSchema); err != nil {
			return err
		}
	}
	if opts.MigrateOnly {
		log.Printf("✅ Schema %s is up to date", cfg.DatabaseSchema)
		return nil
	}

	// Initialize repositories with shared connection
	bindingsRepo := db.NewPostgresBindingsRepository(dbConn, cfg.DatabaseSchema)
	auditDestinationsRepo := db.NewPostgresAuditDestinationsRepository(dbConn, cfg.DatabaseSchema)
	settingsRepo := db.NewPostgresSettingsRepository(dbConn, cfg.DatabaseSchema)
	healthRepo := db.NewPostgresHealthRepository(dbConn)

	txManager := txmanager.NewTransactionManager(dbConn)

	bindingsService := bindings.NewBindingsService(bindingsRepo, auditDestinationsRepo, healthRepo)
	settingsService := settings.NewSettingsService(settingsRepo, txManager)

	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discordclient.NewDiscordClient(session)

	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	auditSink := auditlog.NewAuditLogService(
		bindingsService,
		settingsService,
		discordClient,
		alertMiddleware,
		cfg.AuditConfig.QueueSize,
		cfg.AuditConfig.RatePerSecond,
	)
	auditSink.Start(auditCtx)

	reactionsUseCase := reactions.NewReactionsUseCase(
		discordClient,
		bindingsService,
		settingsService,
		auditSink,
		cfg.PlatformTimeout,
	)
	adminUseCase := admin.NewAdminUseCase(discordClient, bindingsService, settingsService)

	pool := workerpool.New(cfg.EventWorkers)
	discordHandler := handlers.NewDiscordEventsHandler(
		session,
		reactionsUseCase,
		adminUseCase,
		alertMiddleware,
		pool,
		handlers.DiscordEventsConfig{
			ApplicationID:    cfg.DiscordConfig.ApplicationID,
			GuildID:          cfg.DiscordConfig.GuildID,
			CommandPrefix:    cfg.DiscordConfig.CommandPrefix,
			RegisterCommands: !opts.SkipCommandRegistration,
		},
	)
	if err := discordHandler.StartBot(); err != nil {
		auditSink.Close()
		return err
	}

	router := mux.NewRouter()
	handlers.NewHealthHandler().SetupEndpoints(router)

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, func() {
		// Stop intake first so the audit queue receives nothing after it closes
		discordHandler.StopBot()
		auditSink.Close()
	})
}

func handleGracefulShutdown(server *http.Server, stopWorkers func()) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	stopWorkers()

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
