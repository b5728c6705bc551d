package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/andryfotsiny/gestion/internal/config"
	"github.com/andryfotsiny/gestion/internal/db"
	"github.com/andryfotsiny/gestion/internal/logger"
	"github.com/andryfotsiny/gestion/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func dbOptions(cfg config.Config) db.Options {
	return db.Options{
		DSN:      cfg.DatabaseDSN,
		Debug:    config.ParseBool("DB_DEBUG", false),
		Migrate:  config.ParseBool("MIGRATIONS", false),
		SeedData: true,
	}
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(dbOptions(cfg)); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}
	if *recountFlag {
		runRecountQuantities(cfg)
		return
	}

	zlog, closeLog := logger.NewWithRotate(cfg.LogLevel, cfg.Env != "development", cfg.LogFile, 10, 5, 0, false)
	defer closeLog()

	dbConn, err := db.ConnectAndMigrate(dbOptions(cfg))
	if err != nil {
		zlog.Fatal("db connect", zap.Error(err))
	}
	zlog.Info("starting server", zap.String("env", cfg.Env), zap.String("port", cfg.Port))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(dbConn, zlog)}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}
