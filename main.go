package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/supra126/worker-email-notifier/pkg/api"
	"github.com/supra126/worker-email-notifier/pkg/audit"
	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/gateway"
	"github.com/supra126/worker-email-notifier/pkg/mail"
	"github.com/supra126/worker-email-notifier/pkg/ratelimit"
	"github.com/supra126/worker-email-notifier/pkg/system"
)

func main() {
	debug := false
	configPath := ""
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.StringVar(&configPath, "config", "", "path to the gateway config file")
	flag.Parse()

	log := setupLogger(debug)
	log.With("version", system.Version).Info("Starting email gateway")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading gateway config: %v", err)
	}
	cfg.Defaults()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := config.NewRegistry(log)
	mailers := mail.NewRegistry(cfg.Mailers, log)
	log.Infow("mailer bindings loaded", "bindings", mailers.Names())

	auditSvc := setupAudit(log, cfg)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := auditSvc.Stop(stopCtx); err != nil {
			log.Warnw("audit service did not drain cleanly", "error", err)
		}
	}()

	var limiter *ratelimit.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(ratelimit.Config{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		})
		defer limiter.Stop()
	}

	server := api.NewServer(log.Desugar(), cfg, debug)
	err = server.RegisterAll([]api.APIController{
		gateway.New(log, cfg, registry, mailers, auditSvc, limiter),
	})
	if err != nil {
		log.Fatalf("Error registering gateway controller: %v", err)
	}

	log.Infow("listening", "address", cfg.Server.ListenAddress)
	if err := server.Listen(ctx); err != nil {
		log.Fatalf("Server terminated: %v", err)
	}
	log.Info("Shutdown complete")
}

func setupAudit(log *zap.SugaredLogger, cfg config.Config) *audit.Service {
	sinks := []audit.Sink{audit.NewLogSink(log.Desugar())}
	if len(cfg.Audit.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(audit.KafkaSinkConfig{
			Brokers: cfg.Audit.Brokers,
			Topic:   cfg.Audit.Topic,
		}, log.Desugar())
		if err != nil {
			log.Fatalf("Error creating Kafka audit sink: %v", err)
		}
		sinks = append(sinks, kafkaSink)
	}
	return audit.NewService(log, sinks...)
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}
