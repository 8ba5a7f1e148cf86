package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/janisto/linkbio/internal/http/health"
	"github.com/janisto/linkbio/internal/http/v1/routes"
	"github.com/janisto/linkbio/internal/platform/auth"
	"github.com/janisto/linkbio/internal/platform/config"
	"github.com/janisto/linkbio/internal/platform/firebase"
	"github.com/janisto/linkbio/internal/platform/kvstore"
	applog "github.com/janisto/linkbio/internal/platform/logging"
	appmiddleware "github.com/janisto/linkbio/internal/platform/middleware"
	"github.com/janisto/linkbio/internal/platform/respond"
	"github.com/janisto/linkbio/internal/platform/validate"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

//	@title						linkbio API
//	@version					1.0
//	@description				Link-in-bio profiles: per-user profile storage, active selection, templates and themes.
//	@BasePath					/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Firebase ID token as "Bearer <token>"
//
//go:generate go tool swag init -g cmd/server/main.go -d ../../ -o ../../api --outputTypes json
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "invalid configuration", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	applog.SetLevel(level)

	if cfg.FirebaseProjectID == "" && cfg.Development() {
		cfg.FirebaseProjectID = "demo-test-project"
		applog.LogWarn(ctx, "using demo-test-project for local development")
	}

	var clients *firebase.Clients
	needFirebase := !cfg.AuthDisabled || cfg.StoreBackend == config.BackendFirestore
	if needFirebase {
		if cfg.FirebaseProjectID == "" {
			applog.LogFatal(ctx, "FIREBASE_PROJECT_ID environment variable is required", nil)
		}
		clients, err = firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:     cfg.FirebaseProjectID,
			SkipFirestore: cfg.StoreBackend != config.BackendFirestore,
		})
		if err != nil {
			applog.LogFatal(ctx, "firebase init failed", err)
		}
		defer func() {
			if closeErr := clients.Close(); closeErr != nil {
				applog.LogError(ctx, "firebase close error", closeErr)
			}
		}()
	}

	store, closeStore, err := openStore(ctx, cfg, clients)
	if err != nil {
		applog.LogFatal(ctx, "open profile store failed", err, slog.String("backend", cfg.StoreBackend))
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			applog.LogError(ctx, "profile store close error", closeErr)
		}
	}()

	var verifier auth.Verifier
	if cfg.AuthDisabled {
		applog.LogWarn(ctx, "authentication disabled; bearer tokens are used as user ids")
		verifier = auth.InsecureVerifier{}
	} else {
		verifier = auth.NewFirebaseVerifier(clients.Auth)
	}

	provider := profilesvc.NewProvider(store)

	e := echo.New()
	e.Validator = validate.New()
	e.HTTPErrorHandler = respond.NewHTTPErrorHandler()
	e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	e.Logger = applog.Logger()

	e.Use(
		appmiddleware.Security(appmiddleware.SecurityConfig{
			Public:       []string{routes.PagesPrefix},
			PublicMaxAge: cfg.PageMaxAge,
		}),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		middleware.BodyLimit(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger("/health"),
		respond.Recoverer(),
	)

	e.GET("/health", health.Handler(store))
	routes.Register(e.Group("/v1"), verifier, provider)

	applog.LogInfo(ctx, "server starting",
		slog.String("addr", ":"+cfg.Port),
		slog.String("version", Version),
		slog.String("store", cfg.StoreBackend))

	sc := echo.StartConfig{
		Address:         ":" + cfg.Port,
		GracefulTimeout: 10 * time.Second,
		BeforeServeFunc: func(s *http.Server) error {
			s.ReadTimeout = 5 * time.Second
			s.ReadHeaderTimeout = 2 * time.Second
			s.WriteTimeout = 10 * time.Second
			s.IdleTimeout = 60 * time.Second
			s.MaxHeaderBytes = 64 << 10
			return nil
		},
	}

	sigCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sc.Start(sigCtx, e); err != nil {
		log.Fatal(err)
	}

	applog.LogInfo(ctx, "server exited")
}

// openStore opens the configured backend and returns its close function.
func openStore(ctx context.Context, cfg config.Config, clients *firebase.Clients) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		applog.LogWarn(ctx, "profiles are kept in memory and lost on restart")
		return kvstore.NewMemory(cfg.StoreQuota), noop, nil

	case config.BackendFile:
		f, err := kvstore.OpenFile(cfg.FilePath, cfg.StoreQuota)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil

	case config.BackendSQLite:
		s, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendRedis:
		r, err := kvstore.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case config.BackendFirestore:
		if clients == nil || clients.Firestore == nil {
			return nil, nil, fmt.Errorf("firestore backend requires firebase clients")
		}
		return kvstore.NewFirestore(clients.Firestore, cfg.FirestoreCollection), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
