package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/platefuel/entitlements/httpapi"
	"github.com/platefuel/entitlements/pkg/access"
	"github.com/platefuel/entitlements/pkg/config"
	"github.com/platefuel/entitlements/pkg/cookie"
	"github.com/platefuel/entitlements/pkg/entitlement"
	"github.com/platefuel/entitlements/pkg/httpserver"
	"github.com/platefuel/entitlements/pkg/identity"
	"github.com/platefuel/entitlements/pkg/logger"
	"github.com/platefuel/entitlements/pkg/pg"
	"github.com/platefuel/entitlements/pkg/redis"
	"github.com/platefuel/entitlements/pkg/session"
)

type appConfig struct {
	Env          string   `env:"APP_ENV" envDefault:"development"`
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"entitlements"`
	CookieSecret []string `env:"COOKIE_SECRETS,required" envSeparator:","`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, appCfg.ServiceName))
	logger.SetAsDefault(log)

	if err := run(ctx, appCfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		pgCfg      pg.Config
		redisCfg   redis.Config
		sessionCfg session.Config
		oauthCfg   identity.OAuthConfig
		httpCfg    httpserver.Config
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&oauthCfg)
	config.MustLoad(&httpCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	cookies, err := cookie.New(appCfg.CookieSecret)
	if err != nil {
		return err
	}

	sessions := session.New(
		session.WithConfig(sessionCfg),
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithTransport(session.NewCookieTransport(cookies, sessionCfg.CookieName, sessionCfg.SecureCookies)),
	)

	provider := identity.NewOAuthProvider(oauthCfg)
	resolver := identity.NewResolver(provider, sessions, identity.WithLogger(log))

	entitlements := entitlement.NewService(
		entitlement.NewPostgresStore(pool),
		entitlement.WithLogger(log),
	)
	router := access.NewRouter(entitlements, access.WithLogger(log))

	handler := httpapi.NewHandler(resolver, entitlements, router,
		httpapi.WithLogger(log),
		httpapi.WithHealthCheck("postgres", pg.Healthcheck(pool)),
		httpapi.WithHealthCheck("redis", redis.Healthcheck(redisClient)),
	)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, handler.Routes())
}
