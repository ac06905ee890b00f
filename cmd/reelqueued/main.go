package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"reelqueue/internal/config"
	"reelqueue/internal/daemon"
	"reelqueue/internal/ipc"
	"reelqueue/internal/logging"
	"reelqueue/internal/notifications"
	"reelqueue/internal/plex"
	"reelqueue/internal/requests"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := requests.OpenWithRecovery(cfg, logger)
	if err != nil {
		logger.Error("open request store", logging.Error(err))
		return
	}

	catalog := plex.NewHTTPClient(cfg)
	notifier := notifications.NewService(cfg)

	d, err := daemon.New(cfg, store, catalog, notifier, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		store.Close()
		return
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("reelqueued shutting down")
}
