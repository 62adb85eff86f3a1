package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/admin"
	"github.com/finbuddy/backend/internal/advisor"
	"github.com/finbuddy/backend/internal/auth"
	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/config"
	"github.com/finbuddy/backend/internal/goal"
	"github.com/finbuddy/backend/internal/logging"
	"github.com/finbuddy/backend/internal/reports"
	"github.com/finbuddy/backend/internal/router"
	"github.com/finbuddy/backend/internal/storage"
	"github.com/finbuddy/backend/internal/storage/memory"
	"github.com/finbuddy/backend/internal/validation"
)

type stores struct {
	accounts account.Store
	budgets  budget.Store
	goals    goal.Store
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer st.close()

	validate := validation.New()
	accounts := account.NewService(st.accounts, validate)
	budgets := budget.NewService(st.budgets, validate)
	goals := goal.NewService(st.goals, validate)
	issuer := auth.NewIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	completer := advisor.NewOpenAIClient(advisor.Config{
		APIKey:     cfg.OpenAI.APIKey,
		Model:      cfg.OpenAI.Model,
		BaseURL:    cfg.OpenAI.BaseURL,
		Timeout:    cfg.OpenAI.Timeout,
		MaxRetries: cfg.OpenAI.MaxRetries,
	})
	gateway := advisor.NewGateway(completer, goals, budgets, log.WithField("component", "advisor"))

	app := router.NewApp(log, cfg.CORSOrigin)
	r := &router.Router{
		AccountHandler: account.NewHandler(accounts, issuer),
		BudgetHandler:  budget.NewHandler(budgets),
		GoalHandler:    goal.NewHandler(goals),
		AdvisorHandler: advisor.NewHandler(gateway),
		ReportsHandler: reports.NewHandler(budgets, log),
		AdminHandler:   admin.NewHandler(accounts, log),
		AuthMW:         auth.Middleware(issuer, accounts),
		AdminMW:        admin.RequireAdminAPIKey(cfg.AdminAPIKey),
		AuthLimitMW:    router.RateLimitAuth(cfg.RateLimitAuthMax),
		AdviceLimitMW:  router.RateLimitAdvice(cfg.RateLimitAdviceMax),
	}
	r.RegisterRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"backend": cfg.DataBackend,
		"model":   cfg.OpenAI.Model,
	}).Info("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("listen")
	}
}

func openStores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*stores, error) {
	if cfg.DataBackend == config.BackendMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		m := memory.New()
		return &stores{accounts: m, budgets: m, goals: m, close: func() {}}, nil
	}

	if cfg.AutoMigrate {
		if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
	}

	pool, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &stores{
		accounts: account.NewRepository(pool),
		budgets:  budget.NewRepository(pool),
		goals:    goal.NewRepository(pool),
		close:    pool.Close,
	}, nil
}
