package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/lendcore/loanverify/internal/companyintel"
	"github.com/lendcore/loanverify/internal/config"
	"github.com/lendcore/loanverify/internal/decision"
	httpserver "github.com/lendcore/loanverify/internal/interfaces/http"
	"github.com/lendcore/loanverify/internal/narrative"
	"github.com/lendcore/loanverify/internal/pipeline"
	"github.com/lendcore/loanverify/internal/repository"
	"github.com/lendcore/loanverify/internal/review"
	"github.com/lendcore/loanverify/internal/scoring"
	"github.com/lendcore/loanverify/pkg/database"
	"github.com/lendcore/loanverify/pkg/utils"
)

func main() {
	// Environment first so the config layer can pick up credentials
	_ = gotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting loan verification service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Company verification: search-backed when a Serper key is
	// configured, heuristic otherwise, with an optional Redis cache in
	// front.
	var companies companyintel.Verifier
	if cfg.Serper.APIKey != "" {
		companies = companyintel.NewSerperClient(companyintel.SerperConfig{
			APIKey:    cfg.Serper.APIKey,
			SearchURL: cfg.Serper.SearchURL,
			Timeout:   cfg.Serper.Timeout,
		}, logger)
	} else {
		logger.Warn("No Serper API key configured, using heuristic company verification")
		companies = companyintel.NewHeuristic()
	}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, company verification cache disabled", zap.Error(err))
		} else {
			companies = companyintel.NewCache(companies, redisClient, cfg.Redis.CacheTTL, logger)
			defer redisClient.Close()
		}
	}

	narrator := narrative.New(narrative.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
	}, logger)

	orchestrator := pipeline.NewOrchestrator(
		scoring.NewCreditScorer(logger),
		scoring.NewEmploymentVerifier(companies, cfg.Pipeline.CompanyLookupTimeout, logger),
		scoring.NewCollateralAssessor(logger),
		review.NewReviewer(narrator, logger),
		decision.NewSynthesizer(narrator, logger),
		repository.NewTaskRepository(db.DB, logger),
		logger,
	)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, orchestrator, logger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "configs/config.yaml"
}
