package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relayhq/relaypay-backend/api/routes"
	"github.com/relayhq/relaypay-backend/internal/companies"
	"github.com/relayhq/relaypay-backend/internal/employees"
	"github.com/relayhq/relaypay-backend/internal/payroll"
	"github.com/relayhq/relaypay-backend/pkg/config"
	"github.com/relayhq/relaypay-backend/pkg/db"
	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/metrics"
	"github.com/relayhq/relaypay-backend/pkg/migrate"
	"github.com/relayhq/relaypay-backend/pkg/redis"
	"github.com/relayhq/relaypay-backend/pkg/relay"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	relayClient, err := relay.NewClient(context.Background(), cfg.Relay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create relay client", err)
		os.Exit(1)
	}

	payrollMetrics := metrics.NewPayrollMetrics(prometheus.DefaultRegisterer)

	quoteResolver, err := payroll.NewQuoteResolver(relayClient, cfg.Payroll.FallbackFeeBps, logg, payrollMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote resolver", err)
		os.Exit(1)
	}

	payrollService, err := payroll.NewService(payroll.ServiceParams{
		Repo:     payroll.NewRepository(dbClient.DB()),
		Resolver: quoteResolver,
		Logger:   logg,
		Metrics:  payrollMetrics,
		Config:   cfg.Payroll,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payroll service", err)
		os.Exit(1)
	}

	companyService, err := companies.NewService(companies.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	employeeService, err := employees.NewService(employees.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create employee service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			relayClient,
			quoteResolver,
			companyService,
			employeeService,
			payrollService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
