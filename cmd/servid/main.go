package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autoelectric/shopsvc/calendar"
	"github.com/autoelectric/shopsvc/email"
	"github.com/autoelectric/shopsvc/handler"
	"github.com/autoelectric/shopsvc/pkg/database"
	"github.com/autoelectric/shopsvc/postgres"
	"github.com/autoelectric/shopsvc/sms"
)

func main() {

	log, err := newLog("shop-api")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run("shop-api", log); err != nil {
		log.Errorw("startup", "err", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(serverName string, log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := struct {
		Http struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:30s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			Host            string        `conf:"default:0.0.0.0:5000"`
		}
		DB struct {
			URL          string `conf:"env:DATABASE_URL,mask"`
			User         string `conf:"default:shopsvc"`
			Password     string `conf:"default:shopsvc,mask"`
			Host         string `conf:"default:localhost"`
			Name         string `conf:"default:shop"`
			MaxIdleConns int    `conf:"default:2"`
			MaxOpenConns int    `conf:"default:10"`
			DisableTLS   bool   `conf:"default:true"`
		}
		SendGrid struct {
			APIKey     string        `conf:"env:SENDGRID_API_KEY,mask"`
			Sender     string        `conf:"env:VERIFIED_SENDER_EMAIL"`
			Notify     string        `conf:"env:NOTIFICATION_EMAIL"`
			BaseURL    string        `conf:"env:SENDGRID_BASE_URL"`
			Timeout    time.Duration `conf:"default:30s"`
			MaxRetries int           `conf:"default:2"`
		}
		Twilio struct {
			AccountSID    string        `conf:"env:TWILIO_ACCOUNT_SID"`
			AuthToken     string        `conf:"env:TWILIO_AUTH_TOKEN,mask"`
			From          string        `conf:"env:TWILIO_PHONE_NUMBER"`
			BusinessPhone string        `conf:"env:BUSINESS_NOTIFICATION_PHONE"`
			BaseURL       string        `conf:"env:TWILIO_BASE_URL"`
			Timeout       time.Duration `conf:"default:30s"`
			MaxRetries    int           `conf:"default:2"`
		}
		Google struct {
			ServiceAccountKey string `conf:"env:GOOGLE_SERVICE_ACCOUNT_KEY,mask"`
			CalendarID        string `conf:"env:GOOGLE_CALENDAR_ID"`
			TimeZone          string `conf:"default:America/Denver"`
		}
		Tracing struct {
			ReporterURI string  `conf:"default:http://localhost:4318/v1/traces"`
			ServiceName string  `conf:"default:shopsvc-api"`
			Probability float64 `conf:"default:0.5"`
		}
	}{}

	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Database Support

	dbCfg := database.Config{
		URL:          cfg.DB.URL,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	}

	// Create connectivity to the database.
	log.Infow("startup", "status", "initializing database support", "host", cfg.DB.Host)

	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Infow("shutdown", "status", "stopping database support", "host", cfg.DB.Host)
		db.Close()
	}()

	// =========================================================================
	// Update database schema

	log.Infow("startup", "status", "updating database schema", "database", cfg.DB.Name, "host", cfg.DB.Host)

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.Migrate(migrateCtx, db); err != nil {
		return fmt.Errorf("updating database schema: %w", err)
	}

	// =========================================================================
	// Start Tracing Support

	log.Infow("startup", "status", "initializing OT/OTLP tracing support")

	traceProvider, err := startTracing(
		cfg.Tracing.ServiceName,
		cfg.Tracing.ReporterURI,
		cfg.Tracing.Probability,
	)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer traceProvider.Shutdown(context.Background())

	// =========================================================================
	// Notification adapters

	log.Infow("startup", "status", "initializing notification adapters")

	mailer := email.New(log, email.Config{
		APIKey:     cfg.SendGrid.APIKey,
		BaseURL:    cfg.SendGrid.BaseURL,
		Sender:     cfg.SendGrid.Sender,
		Notify:     cfg.SendGrid.Notify,
		Timeout:    cfg.SendGrid.Timeout,
		MaxRetries: cfg.SendGrid.MaxRetries,
	})

	texter := sms.New(log, sms.Config{
		AccountSID:    cfg.Twilio.AccountSID,
		AuthToken:     cfg.Twilio.AuthToken,
		From:          cfg.Twilio.From,
		BusinessPhone: cfg.Twilio.BusinessPhone,
		BaseURL:       cfg.Twilio.BaseURL,
		Timeout:       cfg.Twilio.Timeout,
		MaxRetries:    cfg.Twilio.MaxRetries,
	})

	cal := calendar.New(context.Background(), log, calendar.Config{
		ServiceAccountKey: cfg.Google.ServiceAccountKey,
		CalendarID:        cfg.Google.CalendarID,
		TimeZone:          cfg.Google.TimeZone,
	})

	// =========================================================================
	// Create router

	log.Infow("startup", "status", "initializing router")

	otelLog := otelzap.New(log.Desugar(), otelzap.WithStackTrace(true)).Sugar()
	validate := handler.NewValidator()

	api := handler.API{
		Contacts:     handler.NewContactHandler(postgres.NewContactService(db), mailer, texter, validate, otelLog),
		Appointments: handler.NewAppointmentHandler(postgres.NewAppointmentService(db), cal, texter, validate, otelLog),
		Availability: handler.NewAvailabilityHandler(cal, otelLog),
		Health: handler.NewHealthHandler(
			func(ctx context.Context) error { return database.StatusCheck(ctx, db) },
			mailer, texter, cal, otelLog,
		),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serverName, otelchi.WithChiRoutes(r)))
	r.Use(handler.RequestLog(otelLog))
	r.Use(handler.Recover(otelLog))

	r.Route("/api", api.Routes)

	// =========================================================================
	// Start API Server

	log.Infow("startup", "status", "initializing http server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// The HTTP Server
	server := &http.Server{
		Addr:         cfg.Http.Host,
		Handler:      r,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func newLog(serviceName string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}

func startTracing(serviceName, reporterURL string, probability float64) (*tracesdk.TracerProvider, error) {
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpointURL(reporterURL))
	if err != nil {
		return nil, fmt.Errorf("creating new exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(probability))),
		// Always be sure to batch in production.
		tracesdk.WithBatcher(exp,
			tracesdk.WithMaxExportBatchSize(tracesdk.DefaultMaxExportBatchSize),
			tracesdk.WithBatchTimeout(tracesdk.DefaultScheduleDelay*time.Millisecond),
		),
		// Record information about this application in a Resource.
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			attribute.String("exporter", "otlp"),
		)),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}
