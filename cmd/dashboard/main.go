package main

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"max.ks1230/finance-dashboard/internal/clients/cache"
	"max.ks1230/finance-dashboard/internal/config"
	"max.ks1230/finance-dashboard/internal/logger"
	"max.ks1230/finance-dashboard/internal/model/analyze"
	"max.ks1230/finance-dashboard/internal/model/session"
	"max.ks1230/finance-dashboard/internal/server"
	"max.ks1230/finance-dashboard/internal/tracing"
)

func main() {
	logger.Info("Dashboard init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := tracing.Init(conf.App().TracingService())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer func() {
		_ = closer.Close()
	}()

	storage, err := newSessionStorage(conf)
	if err != nil {
		logger.Fatal("failed to init session storage:", zap.Error(err))
	}

	var reportCache server.ReportCache
	if len(conf.Memcached().Hosts()) > 0 {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached:", zap.Error(err))
		}
		reportCache = mc
	}

	analyzer := analyze.New(conf.App())
	srv := server.New(conf.Server(), analyzer, storage, reportCache)

	logger.Info("Dashboard init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = srv.Run(ctx); err != nil {
		logger.Fatal("server stopped:", zap.Error(err))
	}
}

func newSessionStorage(conf *config.Service) (server.SessionStorage, error) {
	switch conf.Server().StorageBackend() {
	case "postgres":
		return session.NewPostgresStorage(conf.Postgres())
	default:
		return session.NewInMemStorage(), nil
	}
}
