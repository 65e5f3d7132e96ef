package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/kunkunyu/mailtemplate/api/routes"
	"github.com/kunkunyu/mailtemplate/internal/notifications"
	"github.com/kunkunyu/mailtemplate/internal/plugin"
	"github.com/kunkunyu/mailtemplate/internal/reconciler"
	"github.com/kunkunyu/mailtemplate/internal/users"
	"github.com/kunkunyu/mailtemplate/internal/verification"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	"github.com/kunkunyu/mailtemplate/pkg/db"
	"github.com/kunkunyu/mailtemplate/pkg/instance"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/kunkunyu/mailtemplate/pkg/metrics"
	"github.com/kunkunyu/mailtemplate/pkg/migrate"
	"github.com/kunkunyu/mailtemplate/pkg/redis"
	"github.com/kunkunyu/mailtemplate/pkg/storeapi"
	"github.com/kunkunyu/mailtemplate/pkg/toast"
)

const (
	reconcileLockName = "template-reconcile"
	shutdownTimeout   = 15 * time.Second
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

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	if err := run(cfg, logg, dbClient, redisClient); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) error {
	toastMetrics := metrics.NewToastMetrics(prometheus.DefaultRegisterer)
	notifier, err := buildNotifier(cfg, logg, redisClient, toastMetrics)
	if err != nil {
		return err
	}

	storeClient, err := storeapi.NewClient(notifier, storeapi.WithTimeout(cfg.StoreAPI.Timeout))
	if err != nil {
		return err
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	verificationService, err := verification.NewService(users.NewRepository(dbClient.DB()), notificationService, logg)
	if err != nil {
		return err
	}

	lifecycle, err := plugin.NewLifecycle(plugin.Default(), logg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	lifecycle.Start(ctx)
	defer lifecycle.Stop(context.WithoutCancel(ctx))

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:           dbClient,
			Redis:        redisClient,
			Plugin:       lifecycle,
			Verification: verificationService,
			Store:        storeClient,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logg.Info(gctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logg.Info(gctx, "api server shutting down gracefully")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Reconciler.Enabled {
		service, err := buildReconciler(cfg, logg, dbClient, redisClient)
		if err != nil {
			return err
		}
		group.Go(func() error {
			logg.Info(gctx, "starting template reconciler")
			if err := service.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return group.Wait()
}

func buildNotifier(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, m *metrics.ToastMetrics) (storeapi.Notifier, error) {
	publisher, err := toast.NewRedisNotifier(redisClient, cfg.Toast.Channel, logg)
	if err != nil {
		return nil, err
	}
	fanout := toast.Fanout{publisher}
	if cfg.Toast.Log {
		fanout = append(fanout, toast.NewLogNotifier(logg))
	}
	return toast.NewMeteredNotifier(fanout, m), nil
}

func buildReconciler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*reconciler.Service, error) {
	repo := reconciler.NewRepository(dbClient.DB())
	rec, err := reconciler.NewReconciler(repo, logg, cfg.Reconciler.RecreateDelay)
	if err != nil {
		return nil, err
	}
	lock, err := reconciler.NewRedisLock(redisClient, redisClient.LockKey(reconcileLockName), cfg.Reconciler.LockTTL)
	if err != nil {
		return nil, err
	}
	return reconciler.NewService(reconciler.ServiceParams{
		Logger:     logg,
		Reconciler: rec,
		Repository: repo,
		Lock:       lock,
		Metrics:    metrics.NewReconcileMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Reconciler.Interval,
	})
}
