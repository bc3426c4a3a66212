package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/quickepk/quickepk/cmd"
	"github.com/quickepk/quickepk/internal/api"
	"github.com/quickepk/quickepk/internal/config"
	"github.com/quickepk/quickepk/internal/geo"
	"github.com/quickepk/quickepk/internal/mail"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/monitor"
	"github.com/quickepk/quickepk/internal/notifier"
	"github.com/quickepk/quickepk/internal/repository"
	"github.com/quickepk/quickepk/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RunServerCmd represents the 'run-server' Cobra command, the entry point
// for the HTTP API and its background workers.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the press-kit analytics API and background processes.",
	Long: `This command initializes the database, wires the tracking and analytics
services, starts the asynchronous notification workers and the outbound-link
monitor, then launches the HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(
			&models.Account{},
			&models.PressKit{},
			&models.ViewEvent{},
			&models.ClickEvent{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		// Repositories
		pressKitRepo := repository.NewPressKitRepository(db)
		viewRepo := repository.NewViewRepository(db)
		clickRepo := repository.NewClickRepository(db)
		accountRepo := repository.NewAccountRepository(db)
		log.Println("Repositories initialized.")

		// View-recorded channel and notification workers. The tracking
		// service publishes into the channel with a non-blocking send; the
		// workers run the notification gate on the other side.
		viewEvents := make(chan models.ViewRecorded, cfg.Notifications.BufferSize)
		sender := mail.NewSender(mail.LogTransport{}, cfg.Notifications.From)
		gate := notifier.New(pressKitRepo, accountRepo, sender, cfg.Server.BaseURL)
		workersDone := notifier.StartWorkers(cfg.Notifications.WorkerCount, viewEvents, gate)
		log.Printf("View-recorded channel initialized with a buffer of %d. %d notification worker(s) started.",
			cfg.Notifications.BufferSize, cfg.Notifications.WorkerCount)

		// Business services
		locator := geo.NewClient(cfg.Geo.Endpoint, time.Duration(cfg.Geo.TimeoutSeconds)*time.Second)
		trackingService := services.NewTrackingService(viewRepo, clickRepo, locator, viewEvents)
		analyticsService := services.NewAnalyticsService(pressKitRepo, viewRepo, clickRepo)
		pressKitService := services.NewPressKitService(pressKitRepo)
		log.Println("Business services initialized.")

		// Outbound-link monitor
		monitorInterval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		linkMonitor := monitor.NewLinkMonitor(clickRepo, monitorInterval)
		go linkMonitor.Start()
		log.Printf("Link monitor started with an interval of %v.", monitorInterval)

		// Gin router and API handlers
		router := gin.Default()
		api.SetupRoutes(router, trackingService, analyticsService, pressKitService)
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		// Graceful shutdown: wait for SIGINT/SIGTERM, stop accepting
		// requests, then close the view-recorded channel and let the
		// workers drain it. The channel must outlive the HTTP server:
		// in-flight view requests publish into it.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		close(viewEvents)
		workersDone.Wait()
		log.Println("Notification workers drained.")

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
