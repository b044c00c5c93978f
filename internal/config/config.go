package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/platform/resilience"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config stores runtime configuration for the service and the operator CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	StoreDriver             string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string
	AuthDisabled            bool
	AdminEmails             []string
	AuthCacheTTL            time.Duration

	APIFootballEnabled    bool
	APIFootballBaseURL    string
	APIFootballKey        string
	APIFootballHost       string
	APIFootballTimeout    time.Duration
	APIFootballMaxRetries int
	APIFootballCircuit    resilience.CircuitBreakerConfig
	FixtureCacheTTL       time.Duration
	RedisURL              string

	OneSignalEnabled    bool
	OneSignalAppID      string
	OneSignalRESTAPIKey string
	OneSignalBaseURL    string
	OneSignalTimeout    time.Duration
	OneSignalCircuit    resilience.CircuitBreakerConfig

	LedgerDBURL string

	InternalJobToken    string
	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	QStashCircuit       resilience.CircuitBreakerConfig
	JobLiveInterval     time.Duration

	DefaultCompetitionIDs []int64
	DefaultSeason         int
	MatchLocation         *time.Location
	ImportMaxWorkers      int

	CacheEnabled bool
	CacheTTL     time.Duration

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	MetricsEnabled             bool
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "diskichat-admin"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if err := loadStore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAPIFootball(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadOneSignal(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadJobs(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSync(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStore(cfg *Config) error {
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreFirestore)))
	switch cfg.StoreDriver {
	case StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", cfg.StoreDriver, StoreFirestore, StoreMemory)
	}

	cfg.FirebaseProjectID = strings.TrimSpace(getEnv("FIREBASE_PROJECT_ID", ""))
	cfg.FirebaseCredentialsFile = strings.TrimSpace(getEnv("FIREBASE_CREDENTIALS_FILE", ""))
	cfg.FirebaseCredentialsJSON = strings.TrimSpace(getEnv("FIREBASE_CREDENTIALS_JSON", ""))
	cfg.AdminEmails = splitCSV(strings.ToLower(getEnv("ADMIN_EMAILS", "")))
	cfg.LedgerDBURL = strings.TrimSpace(getEnv("LEDGER_DB_URL", ""))

	var err error
	if cfg.AuthDisabled, err = getEnvAsBool("AUTH_DISABLED", "false"); err != nil {
		return err
	}
	if cfg.StoreDriver == StoreMemory {
		if cfg.AppEnv == EnvProd {
			return fmt.Errorf("STORE_DRIVER=%s is not allowed when APP_ENV=%s", StoreMemory, EnvProd)
		}
		// Seed data has no Firebase project to verify tokens against.
		cfg.AuthDisabled = true
	}
	if cfg.AuthDisabled && cfg.AppEnv == EnvProd {
		return fmt.Errorf("AUTH_DISABLED=true is not allowed when APP_ENV=%s", EnvProd)
	}
	if cfg.AuthCacheTTL, err = getEnvAsPositiveDuration("AUTH_CACHE_TTL", "5m"); err != nil {
		return err
	}

	if cfg.StoreDriver == StoreFirestore && cfg.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORE_DRIVER=%s", StoreFirestore)
	}
	if !cfg.AuthDisabled && cfg.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when AUTH_DISABLED=false")
	}
	if cfg.FirebaseCredentialsFile != "" && cfg.FirebaseCredentialsJSON != "" {
		return fmt.Errorf("set only one of FIREBASE_CREDENTIALS_FILE and FIREBASE_CREDENTIALS_JSON")
	}
	return nil
}

func loadAPIFootball(cfg *Config) error {
	var err error
	if cfg.APIFootballEnabled, err = getEnvAsBool("APIFOOTBALL_ENABLED", "true"); err != nil {
		return err
	}
	cfg.APIFootballBaseURL = strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io"))
	cfg.APIFootballKey = strings.TrimSpace(getEnv("APIFOOTBALL_KEY", ""))
	cfg.APIFootballHost = strings.TrimSpace(getEnv("APIFOOTBALL_HOST", "v3.football.api-sports.io"))
	if cfg.APIFootballEnabled && cfg.APIFootballKey == "" {
		return fmt.Errorf("APIFOOTBALL_KEY is required when APIFOOTBALL_ENABLED=true")
	}
	if cfg.APIFootballTimeout, err = getEnvAsPositiveDuration("APIFOOTBALL_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.APIFootballMaxRetries, err = getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 0); err != nil {
		return fmt.Errorf("parse APIFOOTBALL_MAX_RETRIES: %w", err)
	}
	if cfg.APIFootballMaxRetries < 0 {
		return fmt.Errorf("APIFOOTBALL_MAX_RETRIES must be >= 0")
	}
	if cfg.APIFootballCircuit, err = loadCircuit("APIFOOTBALL"); err != nil {
		return err
	}
	if cfg.FixtureCacheTTL, err = getEnvAsDuration("FIXTURE_CACHE_TTL", "60s"); err != nil {
		return err
	}
	if cfg.FixtureCacheTTL < 0 {
		return fmt.Errorf("FIXTURE_CACHE_TTL must be >= 0")
	}
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	return nil
}

func loadOneSignal(cfg *Config) error {
	var err error
	if cfg.OneSignalEnabled, err = getEnvAsBool("ONESIGNAL_ENABLED", "false"); err != nil {
		return err
	}
	cfg.OneSignalAppID = strings.TrimSpace(getEnv("ONESIGNAL_APP_ID", ""))
	cfg.OneSignalRESTAPIKey = strings.TrimSpace(getEnv("ONESIGNAL_REST_API_KEY", ""))
	cfg.OneSignalBaseURL = strings.TrimSpace(getEnv("ONESIGNAL_BASE_URL", "https://onesignal.com"))
	if cfg.OneSignalEnabled {
		if cfg.OneSignalAppID == "" {
			return fmt.Errorf("ONESIGNAL_APP_ID is required when ONESIGNAL_ENABLED=true")
		}
		if cfg.OneSignalRESTAPIKey == "" {
			return fmt.Errorf("ONESIGNAL_REST_API_KEY is required when ONESIGNAL_ENABLED=true")
		}
	}
	if cfg.OneSignalTimeout, err = getEnvAsPositiveDuration("ONESIGNAL_TIMEOUT", "10s"); err != nil {
		return err
	}
	cfg.OneSignalCircuit, err = loadCircuit("ONESIGNAL")
	return err
}

func loadJobs(cfg *Config) error {
	var err error
	if cfg.QStashEnabled, err = getEnvAsBool("QSTASH_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.QStashCircuit, err = loadCircuit("QSTASH"); err != nil {
		return err
	}
	if cfg.JobLiveInterval, err = getEnvAsPositiveDuration("JOB_LIVE_INTERVAL", "2m"); err != nil {
		return err
	}

	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadSync(cfg *Config) error {
	var err error
	if cfg.DefaultCompetitionIDs, err = parseIDList(getEnv("DEFAULT_COMPETITION_IDS", "288,508,507,39,140,78,135,2,12,1,6")); err != nil {
		return fmt.Errorf("parse DEFAULT_COMPETITION_IDS: %w", err)
	}
	if cfg.DefaultSeason, err = getEnvAsInt("DEFAULT_SEASON", 0); err != nil {
		return fmt.Errorf("parse DEFAULT_SEASON: %w", err)
	}
	if cfg.DefaultSeason < 0 {
		return fmt.Errorf("DEFAULT_SEASON must be >= 0")
	}
	tz := getEnv("MATCH_TIMEZONE", "UTC")
	if cfg.MatchLocation, err = time.LoadLocation(tz); err != nil {
		return fmt.Errorf("parse MATCH_TIMEZONE: %w", err)
	}
	if cfg.ImportMaxWorkers, err = getEnvAsInt("IMPORT_MAX_WORKERS", 4); err != nil {
		return fmt.Errorf("parse IMPORT_MAX_WORKERS: %w", err)
	}
	if cfg.ImportMaxWorkers < 1 {
		return fmt.Errorf("IMPORT_MAX_WORKERS must be >= 1")
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "60s")
	return err
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}

	cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true")
	return err
}

// loadCircuit reads <PREFIX>_CIRCUIT_{ENABLED,FAILURE_COUNT,OPEN_TIMEOUT,HALF_OPEN_MAX_REQ}.
func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultsFor(prefix)
	var (
		out resilience.CircuitBreakerConfig
		err error
	)
	if out.Enabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return out, err
	}
	if out.FailureThreshold, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", defaults.FailureThreshold); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if out.OpenTimeout, err = getEnvAsDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", defaults.OpenTimeout.String()); err != nil {
		return out, err
	}
	if out.HalfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	return out, out.Validate(prefix)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := getEnvAsDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
