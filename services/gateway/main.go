// Copyright (C) 2025 Chatsite Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/chatsite/tenantbridge/pkg/logging"
	"github.com/chatsite/tenantbridge/services/gateway/config"
	"github.com/chatsite/tenantbridge/services/gateway/controlplane"
	"github.com/chatsite/tenantbridge/services/gateway/convostore"
	"github.com/chatsite/tenantbridge/services/gateway/observability"
	"github.com/chatsite/tenantbridge/services/gateway/routes"
	"github.com/chatsite/tenantbridge/services/gateway/sitecontext"
	"github.com/chatsite/tenantbridge/services/gateway/tenantdir"
)

const conversationCollection = "conversations"

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	if endpoint == "" {
		endpoint = "localhost:4317"
	}
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("tenant-gateway")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logging.Setup("tenant-gateway")

	cfg := config.FromEnv()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	cleanup, err := initTracer(cfg.OTELEndpoint)
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	registry := prometheus.NewRegistry()
	metrics := observability.NewGatewayMetrics(registry)

	cp := controlplane.New(cfg.ControlPlaneURL, cfg.ControlPlaneAPIKey, cfg.ControlPlaneInternalKey,
		controlplane.WithMetrics(metrics))
	if !cfg.ControlPlaneConfigured() {
		slog.Warn("control plane not configured, tenant proxy routes will answer 500")
	}

	dir := tenantdir.New(cp,
		tenantdir.WithTTL(cfg.SiteCacheTTL),
		tenantdir.WithMetrics(metrics))

	assembler := sitecontext.New(cfg.RagAPIURL, dir, []byte(cfg.JWTSecret), sitecontext.Options{
		Enabled:          cfg.SiteRAGEnabled,
		TopK:             cfg.SiteRAGTopK,
		MaxChars:         cfg.SiteRAGMaxChars,
		RequireSourceURL: cfg.RequireSourceURL,
		AllowRootURL:     cfg.AllowRootURL,
	}, metrics)

	theme, err := cfg.LoadWidgetTheme()
	if err != nil {
		log.Fatalf("failed to load widget theme defaults: %v", err)
	}

	// The conversation store is optional; without it the gateway still
	// serves the proxy and grounding surface.
	var pager *convostore.Pager
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect from mongo", "error", err)
			}
		}()
		coll := mongoClient.Database(cfg.MongoDatabase).Collection(conversationCollection)
		pager = convostore.NewPager(
			convostore.NewMongoSource(coll),
			convostore.WithSearcher(convostore.NewTextSearcher(coll)),
		)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("tenant-gateway"))

	routes.SetupRoutes(router, routes.Deps{
		ControlPlane: cp,
		Directory:    dir,
		Pager:        pager,
		Assembler:    assembler,
		JWTSecret:    []byte(cfg.JWTSecret),
		WidgetTheme:  theme,
		Registry:     registry,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("starting the tenant gateway", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down the tenant gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("gateway exited: %v", err)
	}
}
