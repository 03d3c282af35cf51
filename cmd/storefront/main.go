package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/carlosxfelipe/my-food/internal/cart"
	"github.com/carlosxfelipe/my-food/internal/catalog"
	"github.com/carlosxfelipe/my-food/internal/favorites"
	"github.com/carlosxfelipe/my-food/internal/web"
)

const (
	defaultPort        = "8080"
	defaultCatalogPath = "data/products.json"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

func main() {
	ctx := context.Background()

	if os.Getenv("DISABLE_TRACING") == "" {
		tp, err := initTracerProvider(ctx)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize tracer provider")
		}
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("error shutting down tracer provider")
			}
		}()
	} else {
		log.Info("tracing disabled")
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = defaultCatalogPath
	}
	c, err := catalog.Load(catalogPath)
	if err != nil {
		log.WithError(err).Fatalf("failed to load catalog from %s", catalogPath)
	}
	log.Infof("loaded catalog with %d products", c.Len())

	store, favStorage := buildStores(ctx)

	srv := web.NewServer(c, store, favStorage, 0, log)
	defer srv.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	addr := ":" + port

	handler := otelhttp.NewHandler(srv.Handler(), "storefront")
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("received shutdown signal, draining connections")
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("forced shutdown")
		}
	}()

	log.Infof("storefront listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server failed")
	}
}

// buildStores picks the cart store and favorites persistence. With
// REDIS_ADDR unset, or Redis unreachable, the storefront degrades to
// in-memory state, the same way the app degrades without device storage.
func buildStores(ctx context.Context) (cart.Store, web.FavoritesStorageFunc) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory stores")
		return cart.NewLocalStore(), nil
	}
	if !strings.Contains(redisAddr, ":") {
		redisAddr += ":6379"
	}

	store := cart.NewRedisStore(redisAddr, log)
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := store.Initialize(initCtx); err != nil {
		log.WithError(err).Warn("redis unavailable, falling back to in-memory stores")
		return cart.NewLocalStore(), nil
	}

	favStorage := func(sessionID string) favorites.Storage {
		return favorites.NewRedisStorage(store.Client(), sessionID)
	}
	return store, favStorage
}

// initTracerProvider configures the OTLP exporter; the collector endpoint
// comes from OTEL_EXPORTER_OTLP_ENDPOINT.
func initTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("storefront"),
			semconv.ServiceVersionKey.String("v1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, nil
}
