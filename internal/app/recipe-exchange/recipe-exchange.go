package recipeexchange

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/recipe-exchange/internal/cache"
	"github.com/magabrotheeeer/recipe-exchange/internal/config"
	"github.com/magabrotheeeer/recipe-exchange/internal/identity"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/migrations"
	"github.com/magabrotheeeer/recipe-exchange/internal/paymentprovider"
	"github.com/magabrotheeeer/recipe-exchange/internal/rabbitmq"
	paymentservice "github.com/magabrotheeeer/recipe-exchange/internal/services/payment"
	recipeservice "github.com/magabrotheeeer/recipe-exchange/internal/services/recipe"
	userservice "github.com/magabrotheeeer/recipe-exchange/internal/services/user"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *rabbitmq.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var rabbit *rabbitmq.Connection
	var publisher paymentservice.Publisher
	if cfg.RabbitURL != "" {
		rabbit, err = rabbitmq.Connect(cfg.RabbitURL)
		if err != nil {
			return nil, err
		}
		publisher = rabbit
	} else {
		logger.Warn("rabbitmq url is empty, coin events will not be published")
	}

	verifier := identity.NewTokenVerifier(cfg.IdentityProvider.JWTSecretKey, cfg.IdentityProvider.Issuer)
	providerClient := paymentprovider.NewClient(cfg.PaymentProvider.ShopID, cfg.PaymentProvider.SecretKey)

	userService := userservice.New(db, logger)
	recipeService := recipeservice.New(db, cacheRedis, logger)
	paymentService := paymentservice.New(db, providerClient, publisher, cfg.PaymentProvider.ReturnURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, verifier, userService, recipeService, paymentService, cfg.PaymentProvider.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbit,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbit != nil {
			if cerr := a.rabbit.Close(); cerr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(cerr))
			}
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
