package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogrpc "isletmenum/infra/grpc"
	"isletmenum/infra/postgres"
	"isletmenum/pkg/config"
	"isletmenum/pkg/logger"
	"isletmenum/pkg/media"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	flush := logger.Init(appConfig.IsDevelopment())
	defer flush()

	zap.L().Info("Catalog gRPC service starting...")

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgRepository, err := postgres.NewPgRepository(startCtx, appConfig.PostgresDSN())
	if err != nil {
		zap.L().Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer pgRepository.Close()

	lis, err := catalogrpc.Listen(appConfig.GRPCPort)
	if err != nil {
		zap.L().Fatal("Failed to create gRPC listener", zap.Error(err))
	}

	// Only URLs are derived here, the backend itself is never read.
	resolver := media.NewStore(nil, media.PublicBaseURL(appConfig))

	grpcServer := catalogrpc.NewServer(lis)
	grpcServer.RegisterCatalog(catalogrpc.NewCatalogService(pgRepository, resolver))

	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("gRPC server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *catalogrpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down gRPC server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
