package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	Cache        CacheConfig
	JWT          JWTConfig
	Admin        AdminConfig
	CORS         CORSConfig
	Log          LogConfig
	Upload       UploadConfig
	S3           S3Config
	Registration RegistrationConfig
	Backup       BackupConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles Redis backed caching of public content reads.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminConfig holds the bootstrap administrator seeded into an empty users table.
type AdminConfig struct {
	Username string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadConfig controls image upload validation and local storage.
type UploadConfig struct {
	Dir              string
	PublicPath       string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// UploadKeyPrefix is prepended to image keys stored in S3.
const UploadKeyPrefix = "uploads/"

// S3Config enables object storage for uploads and backup snapshots when Bucket is set.
// Private stores never hand out public URLs.
type S3Config struct {
	Bucket        string
	Region        string
	Prefix        string
	PublicBaseURL string
	Private       bool
}

// Enabled reports whether an S3 bucket has been configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// RegistrationConfig tunes registration number allocation.
// Location decides which calendar year a new number belongs to.
type RegistrationConfig struct {
	MaxAttempts int
	Location    *time.Location
}

// BackupConfig configures asynchronous backup snapshots.
// S3Bucket defaults to the upload bucket; S3Prefix must stay outside the public upload area.
type BackupConfig struct {
	StorageDir      string
	S3Bucket        string
	S3Prefix        string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	Workers         int
	Retries         int
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

	cfg := fromViper(v)
	if cfg.S3.Enabled() {
		if _, err := cfg.BackupS3(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// BackupS3 returns the private S3 target for backup snapshots. It fails when snapshots would land
// under the prefix that serves public uploads.
func (c *Config) BackupS3() (S3Config, error) {
	target := S3Config{
		Bucket:  c.Backup.S3Bucket,
		Region:  c.S3.Region,
		Prefix:  strings.Trim(c.Backup.S3Prefix, "/"),
		Private: true,
	}
	if target.Bucket == "" {
		target.Bucket = c.S3.Bucket
	}
	if target.Bucket != c.S3.Bucket {
		return target, nil
	}
	uploadRoot := path.Join(strings.Trim(c.S3.Prefix, "/"), UploadKeyPrefix)
	if target.Prefix == "" || target.Prefix == uploadRoot || strings.HasPrefix(target.Prefix+"/", uploadRoot+"/") ||
		strings.HasPrefix(uploadRoot+"/", target.Prefix+"/") {
		return target, fmt.Errorf("BACKUP_S3_PREFIX %q overlaps public uploads at %q in bucket %s", target.Prefix, uploadRoot, target.Bucket)
	}
	return target, nil
}

func fromViper(v *viper.Viper) *Config {
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Admin = AdminConfig{
		Username: v.GetString("ADMIN_USERNAME"),
		Password: v.GetString("ADMIN_PASSWORD"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Upload = UploadConfig{
		Dir:              v.GetString("UPLOAD_DIR"),
		PublicPath:       v.GetString("UPLOAD_PUBLIC_PATH"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOAD_ALLOWED_MIME_TYPES")),
	}

	cfg.S3 = S3Config{
		Bucket:        v.GetString("S3_BUCKET"),
		Region:        v.GetString("S3_REGION"),
		Prefix:        v.GetString("S3_PREFIX"),
		PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
	}

	attempts := v.GetInt("REGISTRATION_MAX_ATTEMPTS")
	if attempts <= 0 {
		attempts = 5
	}
	cfg.Registration = RegistrationConfig{
		MaxAttempts: attempts,
		Location:    loadLocation(v.GetString("REGISTRATION_TIMEZONE")),
	}

	cfg.Backup = BackupConfig{
		StorageDir:      v.GetString("BACKUP_STORAGE_DIR"),
		S3Bucket:        v.GetString("BACKUP_S3_BUCKET"),
		S3Prefix:        v.GetString("BACKUP_S3_PREFIX"),
		SignedURLSecret: v.GetString("BACKUP_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("BACKUP_SIGNED_URL_TTL"), time.Hour),
		Workers:         v.GetInt("BACKUP_WORKERS"),
		Retries:         v.GetInt("BACKUP_RETRIES"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "lpk_cms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "lpk-cms-api")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOAD_DIR", "./public/uploads")
	v.SetDefault("UPLOAD_PUBLIC_PATH", "/uploads")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_MIME_TYPES", "image/jpeg,image/jpg,image/png,image/webp,image/gif")

	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "ap-southeast-1")
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")

	v.SetDefault("REGISTRATION_MAX_ATTEMPTS", 5)
	v.SetDefault("REGISTRATION_TIMEZONE", "Local")

	v.SetDefault("BACKUP_STORAGE_DIR", "./data")
	v.SetDefault("BACKUP_S3_BUCKET", "")
	v.SetDefault("BACKUP_S3_PREFIX", "private/backups")
	v.SetDefault("BACKUP_SIGNED_URL_SECRET", "dev_backup_secret")
	v.SetDefault("BACKUP_SIGNED_URL_TTL", "1h")
	v.SetDefault("BACKUP_WORKERS", 1)
	v.SetDefault("BACKUP_RETRIES", 3)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// loadLocation resolves an IANA zone name. Unknown names fall back to the host zone.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
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
