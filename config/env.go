package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "maplecart"
	defaultRedisAddr      = "localhost:6379"
	defaultJWTSecret      = "change-me-in-production"
	defaultAppPort        = "8080"
	defaultAppEnv         = "local"
	defaultClientURL      = "http://localhost:3000"
	defaultCurrency       = "cad"
	defaultShippingAmount = "500" // minor units, flat rate
	defaultResetTokenTTL  = "3600"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":        defaultMongoURI,
		"MONGO_DATABASE":   defaultMongoDatabase,
		"REDIS_ADDR":       defaultRedisAddr,
		"REDIS_PASSWORD":   "",
		"JWT_SECRET":       defaultJWTSecret,
		"APP_PORT":         defaultAppPort,
		"APP_ENV":          defaultAppEnv,
		"CLIENT_URL":       defaultClientURL,
		"CURRENCY":         defaultCurrency,
		"SHIPPING_AMOUNT":  defaultShippingAmount,
		"RESET_TOKEN_TTL":  defaultResetTokenTTL,
		"STRIPE_KEY":       "",
		"GRPC_PORT":        "",
		"LOG_MONGO_ENABLE": "",
	}
}

// ── App ──────────────────────────────────────────────────────────────────────

func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

// ClientURL is the public storefront origin. Checkout redirect URLs and
// password-reset links are built on top of it.
func ClientURL() string {
	_ = Load()
	return strings.TrimRight(get("CLIENT_URL", defaultClientURL), "/")
}

// GRPCPort returns the gRPC listen port, or "" when the gRPC surface is disabled.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

// ── Mongo ────────────────────────────────────────────────────────────────────

func MongoURI() string      { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { _ = Load(); return get("MONGO_DATABASE", defaultMongoDatabase) }

// LogMongoEnabled reports whether the async Mongo log sink should be attached.
func LogMongoEnabled() bool {
	_ = Load()
	switch strings.ToLower(get("LOG_MONGO_ENABLE", "")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ── Redis ────────────────────────────────────────────────────────────────────

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

// ── Payments ─────────────────────────────────────────────────────────────────

func StripeKey() string { _ = Load(); return get("STRIPE_KEY", "") }

func Currency() string { _ = Load(); return strings.ToLower(get("CURRENCY", defaultCurrency)) }

// ShippingAmount is the flat shipping rate in minor currency units.
func ShippingAmount() int64 {
	_ = Load()
	n, err := strconv.ParseInt(get("SHIPPING_AMOUNT", defaultShippingAmount), 10, 64)
	if err != nil || n < 0 {
		n, _ = strconv.ParseInt(defaultShippingAmount, 10, 64)
	}
	return n
}

// ResetTokenTTL is how long a password-reset token stays valid.
func ResetTokenTTL() time.Duration {
	_ = Load()
	secs, err := strconv.ParseInt(get("RESET_TOKEN_TTL", defaultResetTokenTTL), 10, 64)
	if err != nil || secs <= 0 {
		secs, _ = strconv.ParseInt(defaultResetTokenTTL, 10, 64)
	}
	return time.Duration(secs) * time.Second
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:8080/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Loader internals ─────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
