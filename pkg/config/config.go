package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Calendar storage backends.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Period layouts. See TimetableConfig.PeriodLayout.
const (
	PeriodLayoutSlots   = "slots"
	PeriodLayoutLessons = "lessons"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Terms     TermsConfig
	Calendar  CalendarConfig
	Minio     MinioConfig
	Directory DirectoryConfig
	Timetable TimetableConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TermsConfig points at the YAML term catalog.
type TermsConfig struct {
	File string
}

// CalendarConfig controls where exported calendar documents live and how they are addressed.
type CalendarConfig struct {
	Storage       string
	StorageDir    string
	Timezone      string
	PublicBaseURL string
	ProductID     string
}

// MinioConfig configures the object storage backend for calendar documents.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// DirectoryConfig tunes access to the student/section directory.
type DirectoryConfig struct {
	FetchConcurrency int
	PrefixCacheTTL   time.Duration
}

// TimetableConfig selects how section periods are interpreted.
//
// "slots" treats a period as one of six daily slots (slot 6 = lessons 11-12).
// "lessons" treats a period as a lesson number 1-12.
type TimetableConfig struct {
	PeriodLayout string
}

// ExportConfig tunes printable timetable rendering.
type ExportConfig struct {
	PDFFontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Terms = TermsConfig{File: v.GetString("TERMS_FILE")}

	cfg.Calendar = CalendarConfig{
		Storage:       strings.ToLower(v.GetString("CALENDAR_STORAGE")),
		StorageDir:    v.GetString("CALENDAR_STORAGE_DIR"),
		Timezone:      v.GetString("CALENDAR_TIMEZONE"),
		PublicBaseURL: strings.TrimRight(v.GetString("CALENDAR_PUBLIC_BASE_URL"), "/"),
		ProductID:     v.GetString("CALENDAR_PRODUCT_ID"),
	}

	cfg.Minio = MinioConfig{
		Endpoint:  v.GetString("MINIO_ENDPOINT"),
		AccessKey: v.GetString("MINIO_ACCESS_KEY"),
		SecretKey: v.GetString("MINIO_SECRET_KEY"),
		Bucket:    v.GetString("MINIO_BUCKET"),
		UseSSL:    v.GetBool("MINIO_USE_SSL"),
	}

	cfg.Directory = DirectoryConfig{
		FetchConcurrency: v.GetInt("DIRECTORY_FETCH_CONCURRENCY"),
		PrefixCacheTTL:   parseDuration(v.GetString("PREFIX_CACHE_TTL"), 6*time.Hour),
	}

	cfg.Timetable = TimetableConfig{PeriodLayout: normalizeLayout(v.GetString("PERIOD_LAYOUT"))}

	cfg.Export = ExportConfig{PDFFontPath: v.GetString("EXPORT_PDF_FONT_PATH")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TERMS_FILE", "./terms.yaml")

	v.SetDefault("CALENDAR_STORAGE", StorageLocal)
	v.SetDefault("CALENDAR_STORAGE_DIR", "./ics")
	v.SetDefault("CALENDAR_TIMEZONE", "Asia/Shanghai")
	v.SetDefault("CALENDAR_PUBLIC_BASE_URL", "")
	v.SetDefault("CALENDAR_PRODUCT_ID", "-//sma-timetable//timetable export//ZH")

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "calendars")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("DIRECTORY_FETCH_CONCURRENCY", 4)
	v.SetDefault("PREFIX_CACHE_TTL", "6h")

	v.SetDefault("PERIOD_LAYOUT", PeriodLayoutSlots)
	v.SetDefault("EXPORT_PDF_FONT_PATH", "")
}

func normalizeLayout(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case PeriodLayoutLessons:
		return PeriodLayoutLessons
	default:
		return PeriodLayoutSlots
	}
}

func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
