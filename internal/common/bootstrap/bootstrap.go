package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/clock"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/config"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/constants"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/db"
	commonhttp "github.com/AlibekovAA/secure-notes/backend/internal/common/http"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/server"
	identitycache "github.com/AlibekovAA/secure-notes/backend/internal/identity/cache"
	identityservice "github.com/AlibekovAA/secure-notes/backend/internal/identity/service"
	noterepo "github.com/AlibekovAA/secure-notes/backend/internal/note/repository"
	noteservice "github.com/AlibekovAA/secure-notes/backend/internal/note/service"
	userrepo "github.com/AlibekovAA/secure-notes/backend/internal/user/repository"
)

type App struct {
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	UserRepo    userrepo.Repository
	NoteService *noteservice.NoteService
}

type NotesApp struct {
	App
	Config config.NotesConfig
	Router RouterDeps

	hooks []server.ShutdownHook
}

type AdminApp struct {
	App
	Config   config.AdminConfig
	Verifier *jwtverify.Verifier
	Resolver *identityservice.Resolver
}

func NewNotesApp(ctx context.Context) (*NotesApp, error) {
	cfg, err := config.LoadNotesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "notes", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := initializeApp(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.StartPoolMetrics(ctx, app.Pool, constants.DBPoolMetricsInterval)

	verifier, err := newVerifier(cfg.JWT)
	if err != nil {
		app.Pool.Close()
		return nil, err
	}

	cache, err := newIdentityCache(ctx, cfg, log)
	if err != nil {
		app.Pool.Close()
		return nil, err
	}

	resolver := identityservice.NewResolver(app.UserRepo, cache, log)
	limiter := commonhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	notesApp := &NotesApp{
		App:    *app,
		Config: cfg,
		Router: RouterDeps{
			Log:            log,
			Verifier:       verifier,
			Resolver:       resolver,
			Notes:          app.NoteService,
			Ready:          app.Pool,
			RateLimiter:    limiter,
			RequestTimeout: cfg.RequestTimeout,
			MaxRequestSize: cfg.MaxRequestSize,
		},
	}

	notesApp.hooks = append(notesApp.hooks, func(context.Context) error {
		limiter.Stop()
		return nil
	})
	if cache != nil {
		notesApp.hooks = append(notesApp.hooks, func(context.Context) error {
			return cache.Close()
		})
	}
	notesApp.hooks = append(notesApp.hooks, func(context.Context) error {
		app.Pool.Close()
		return nil
	})

	log.Infof("notes app initialized: algorithm=%s identity_cache=%s", verifier.Algorithm(), cacheBackend(cache))
	return notesApp, nil
}

func (a *NotesApp) Handler() http.Handler {
	return NewRouter(a.Router)
}

func (a *NotesApp) ShutdownHooks() []server.ShutdownHook {
	return a.hooks
}

func NewAdminApp(ctx context.Context) (*AdminApp, error) {
	cfg, err := config.LoadAdminConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.DisabledLogDir, "notes-admin", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := initializeApp(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &AdminApp{
		App:      *app,
		Config:   cfg,
		Resolver: identityservice.NewResolver(app.UserRepo, nil, log),
	}, nil
}

// LoadVerifier builds the credential verifier on demand; only token
// commands need key material.
func (a *AdminApp) LoadVerifier() (*jwtverify.Verifier, error) {
	if a.Verifier != nil {
		return a.Verifier, nil
	}
	if err := a.Config.JWT.Validate(); err != nil {
		return nil, err
	}
	verifier, err := newVerifier(a.Config.JWT)
	if err != nil {
		return nil, err
	}
	a.Verifier = verifier
	return verifier, nil
}

func (a *AdminApp) Close() {
	a.Pool.Close()
}

func initializeApp(ctx context.Context, log *logger.Logger, databaseURL string) (*App, error) {
	pool, err := db.NewPool(ctx, log, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	userRepo := userrepo.NewPgRepository(pool)
	noteRepo := noterepo.NewPgRepository(pool, clock.NewRealClock())
	noteService := noteservice.NewNoteService(noteRepo, log)

	return &App{
		Log:         log,
		Pool:        pool,
		UserRepo:    userRepo,
		NoteService: noteService,
	}, nil
}

func newVerifier(cfg config.JWTConfig) (*jwtverify.Verifier, error) {
	pem, err := cfg.PublicKeyPEM()
	if err != nil {
		return nil, err
	}

	verifier, err := jwtverify.NewVerifier(pem, cfg.Algorithm,
		jwtverify.WithLeeway(cfg.Leeway),
		jwtverify.WithIssuer(cfg.Issuer),
		jwtverify.WithAudience(cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential verifier: %w", err)
	}
	return verifier, nil
}

func newIdentityCache(ctx context.Context, cfg config.NotesConfig, log *logger.Logger) (identitycache.Cache, error) {
	if cfg.IdentityCacheTTL <= 0 {
		return nil, nil
	}
	if cfg.RedisURL != "" {
		cache, err := identitycache.NewRedisCache(ctx, cfg.RedisURL, cfg.IdentityCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize identity cache: %w", err)
		}
		return cache, nil
	}
	return identitycache.NewMemoryCache(ctx, cfg.IdentityCacheTTL, clock.NewRealClock(), log), nil
}

func cacheBackend(cache identitycache.Cache) string {
	if cache == nil {
		return "disabled"
	}
	return cache.Backend()
}

// ExitOnError prints err and terminates; used before a logger exists.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
