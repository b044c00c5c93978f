package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gfs "cloud.google.com/go/firestore"
	"github.com/riskibarqy/diskichat-admin/external/apifootball"
	"github.com/riskibarqy/diskichat-admin/external/jobqueue"
	"github.com/riskibarqy/diskichat-admin/external/onesignal"
	"github.com/riskibarqy/diskichat-admin/internal/config"
	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/auth/firebase"
	cacherepo "github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/firestore"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/diskichat-admin/internal/interfaces/httpapi"
	"github.com/riskibarqy/diskichat-admin/internal/observability"
	basecache "github.com/riskibarqy/diskichat-admin/internal/platform/cache"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const redisKeyPrefix = "diskichat-admin:"

// App owns every long-lived dependency. cmd/api serves it over HTTP and
// cmd/adminctl drives the same services from the terminal.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	Services httpapi.Services
	Verifier httpapi.TokenVerifier
	Metrics  *observability.Metrics

	metricsHandler http.Handler
	closers        []func(context.Context) error
}

type repositories struct {
	matches      match.Repository
	live         match.LiveRepository
	rooms        banter.Repository
	teams        team.Repository
	competitions competition.Repository
	users        user.Repository
	analytics    analytics.Repository
	runs         ledger.SyncRunRepository
	dispatches   ledger.DispatchRepository
	moderation   ledger.ModerationRepository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	metrics, metricsHandler, shutdownMetrics, err := observability.SetupMetrics(cfg.MetricsEnabled)
	if err != nil {
		return nil, fmt.Errorf("setup metrics: %w", err)
	}
	a.Metrics = metrics
	a.metricsHandler = metricsHandler
	a.onClose(shutdownMetrics)

	repos, err := a.buildStore(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	if err := a.buildLedger(ctx, &repos); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.wrapCaches(&repos)

	source, err := a.buildMatchSource()
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.buildServices(repos, source)

	return a, nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildStore(ctx context.Context) (repositories, error) {
	cfg := a.Config
	if cfg.StoreDriver == config.StoreMemory {
		a.Logger.Warn("using in-memory store with seed data", "store_driver", cfg.StoreDriver)
		a.Verifier = firebase.DevVerifier{}
		return repositories{
			matches:      memory.NewMatchRepository(memory.SeedMatches()),
			live:         memory.NewLiveMatchRepository(),
			rooms:        memory.NewBanterRepository(),
			teams:        memory.NewTeamRepository(memory.SeedTeams()),
			competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
			users:        memory.NewUserRepository(memory.SeedUsers()),
			analytics:    memory.SeedAnalytics(),
		}, nil
	}

	fbApp, err := firebase.NewApp(ctx, firebase.AppConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.FirebaseCredentialsFile,
		CredentialsJSON: cfg.FirebaseCredentialsJSON,
	})
	if err != nil {
		return repositories{}, err
	}
	client, err := firebase.NewFirestoreClient(ctx, fbApp)
	if err != nil {
		return repositories{}, err
	}
	a.onClose(func(context.Context) error { return client.Close() })

	if cfg.AuthDisabled {
		a.Logger.Warn("admin authentication disabled", "app_env", cfg.AppEnv)
		a.Verifier = firebase.DevVerifier{}
	} else {
		authClient, err := firebase.NewAuthClient(ctx, fbApp)
		if err != nil {
			return repositories{}, err
		}
		a.Verifier = firebase.NewVerifier(authClient, firebase.VerifierConfig{
			AdminEmails: cfg.AdminEmails,
			CacheTTL:    cfg.AuthCacheTTL,
			Logger:      a.Logger.Named("auth"),
		})
	}

	return firestoreRepositories(client), nil
}

func firestoreRepositories(client *gfs.Client) repositories {
	return repositories{
		matches:      firestore.NewMatchRepository(client),
		live:         firestore.NewLiveMatchRepository(client),
		rooms:        firestore.NewBanterRepository(client),
		teams:        firestore.NewTeamRepository(client),
		competitions: firestore.NewCompetitionRepository(client),
		users:        firestore.NewUserRepository(client),
		analytics:    firestore.NewAnalyticsRepository(client),
	}
}

// buildLedger keeps sync runs, job dispatches and moderation history in
// Postgres when LEDGER_DB_URL is set, otherwise in process memory.
func (a *App) buildLedger(ctx context.Context, repos *repositories) error {
	dbURL := a.Config.LedgerDBURL
	if dbURL == "" {
		a.Logger.Info("ledger database not configured, audit records kept in memory")
		mem := memory.NewLedgerRepository()
		repos.runs, repos.dispatches, repos.moderation = mem, mem, mem
		return nil
	}

	db, err := openLedgerDB(ctx, dbURL)
	if err != nil {
		return err
	}
	a.onClose(func(context.Context) error { return db.Close() })

	repos.runs = postgres.NewSyncRunRepository(db)
	repos.dispatches = postgres.NewJobDispatchRepository(db)
	repos.moderation = postgres.NewModerationRepository(db)
	return nil
}

func (a *App) wrapCaches(repos *repositories) {
	if !a.Config.CacheEnabled {
		return
	}
	store := basecache.NewStore(a.Config.CacheTTL)
	repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	repos.competitions = cacherepo.NewCompetitionRepository(repos.competitions, store)
	repos.users = cacherepo.NewUserRepository(repos.users, store)
}

// buildMatchSource returns a nil interface when the provider is disabled so
// services can tell "no source" apart from a typed nil client.
func (a *App) buildMatchSource() (usecase.MatchSource, error) {
	cfg := a.Config
	if !cfg.APIFootballEnabled {
		a.Logger.Warn("api-football disabled, fixture import and live sync unavailable")
		return nil, nil
	}

	var responses basecache.ResponseCache = basecache.NewStore(cfg.FixtureCacheTTL)
	if cfg.RedisURL != "" {
		redisCache, err := basecache.NewRedisFromURL(cfg.RedisURL, redisKeyPrefix)
		if err != nil {
			return nil, err
		}
		a.onClose(func(context.Context) error { return redisCache.Close() })
		responses = redisCache
	}

	client := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:         cfg.APIFootballBaseURL,
		APIKey:          cfg.APIFootballKey,
		Host:            cfg.APIFootballHost,
		Timeout:         cfg.APIFootballTimeout,
		MaxRetries:      cfg.APIFootballMaxRetries,
		Logger:          a.Logger,
		CircuitBreaker:  cfg.APIFootballCircuit,
		Cache:           responses,
		FixtureCacheTTL: cfg.FixtureCacheTTL,
		Recorder:        a.Metrics,
	})
	return client, nil
}

func (a *App) buildServices(repos repositories, source usecase.MatchSource) {
	cfg := a.Config
	logger := a.Logger
	ids := idgen.NewUUIDGenerator()
	var metrics usecase.MetricsRecorder = usecase.NewNoopMetrics()
	if a.Metrics != nil {
		metrics = a.Metrics
	}

	services := httpapi.Services{
		Matches:   usecase.NewMatchService(repos.matches, repos.live, repos.rooms, source, ids, cfg.MatchLocation, logger.Named("matches")),
		Users:     usecase.NewUserService(repos.users, repos.moderation, ids, metrics, logger.Named("users")),
		Analytics: usecase.NewAnalyticsService(repos.analytics),
		SyncRuns:  usecase.NewSyncRunService(repos.runs),
	}

	var sender usecase.PushSender
	if cfg.OneSignalEnabled {
		sender = onesignal.NewClient(onesignal.ClientConfig{
			BaseURL:        cfg.OneSignalBaseURL,
			AppID:          cfg.OneSignalAppID,
			RESTAPIKey:     cfg.OneSignalRESTAPIKey,
			Timeout:        cfg.OneSignalTimeout,
			Logger:         logger,
			CircuitBreaker: cfg.OneSignalCircuit,
		})
	}
	services.Notifications = usecase.NewNotificationService(sender, metrics, logger.Named("notifications"))

	var importer *usecase.FixtureImportService
	if source != nil {
		importer = usecase.NewFixtureImportService(source, repos.matches, repos.live, repos.rooms, repos.runs, ids, metrics,
			usecase.FixtureImportConfig{
				DefaultSeason: cfg.DefaultSeason,
				Location:      cfg.MatchLocation,
				MaxWorkers:    cfg.ImportMaxWorkers,
			}, logger.Named("importer"))
		services.Importer = importer
		services.Teams = usecase.NewTeamService(repos.teams, source, repos.runs, ids, cfg.DefaultSeason, logger.Named("teams"))
		services.Competitions = usecase.NewCompetitionService(repos.competitions, source, repos.runs, ids, cfg.DefaultCompetitionIDs, logger.Named("competitions"))
	}

	var liveSvc *usecase.LiveMatchService
	if importer != nil {
		liveSvc = usecase.NewLiveMatchService(repos.matches, repos.live, repos.rooms, importer, repos.runs, ids, metrics, logger.Named("live"))
	} else {
		liveSvc = usecase.NewLiveMatchService(repos.matches, repos.live, repos.rooms, nil, repos.runs, ids, metrics, logger.Named("live"))
	}
	services.LiveMatches = liveSvc
	services.Jobs = usecase.NewJobOrchestratorService(repos.matches, liveSvc, a.buildJobQueue(), repos.dispatches,
		usecase.JobOrchestratorConfig{
			LiveInterval: cfg.JobLiveInterval,
			Location:     cfg.MatchLocation,
		}, logger.Named("jobs"))

	a.Services = services
}

func (a *App) buildJobQueue() usecase.JobQueue {
	cfg := a.Config
	if !cfg.QStashEnabled {
		a.Logger.Info("qstash disabled, live sync chain will not self-schedule")
		return usecase.NewNoopJobQueue()
	}
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker:   cfg.QStashCircuit,
	}, a.Logger)
}

// NewHTTPServer builds the admin API server on top of the wired services.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Services, a.Logger)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:          handler,
		Verifier:         a.Verifier,
		Logger:           a.Logger,
		ServiceName:      a.Config.ServiceName,
		CORSOrigins:      a.Config.CORSAllowedOrigins,
		InternalJobToken: a.Config.InternalJobToken,
		MetricsHandler:   a.metricsHandler,
	})

	return &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: a.Config.ReadTimeout,
		ReadTimeout:       a.Config.ReadTimeout,
		WriteTimeout:      a.Config.WriteTimeout,
	}, nil
}
