package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration validation errors
var (
	ErrInvalidSink          = errors.New("SINK must be 'file' or 'redis'")
	ErrMissingRedisAddr     = errors.New("REDIS_ADDR is required when SINK is 'redis'")
	ErrInvalidStreamCount   = errors.New("REDIS_STREAM_COUNT must be at least 1")
	ErrInvalidMaxFragments  = errors.New("MAX_FRAGMENTS_PER_PAGE must be at least 1")
	ErrInvalidParallelism   = errors.New("CONCURRENT_REQUESTS_PER_DOMAIN must be at least 1")
	ErrInvalidDownloadDelay = errors.New("DOWNLOAD_DELAY_SECONDS must be non-negative")
	ErrInvalidCrawlInterval = errors.New("CRAWL_INTERVAL_SECONDS must be non-negative")
)

// Sink names
const (
	SinkFile  = "file"
	SinkRedis = "redis"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Crawl configuration
	CrawlInterval       time.Duration
	DownloadDelay       time.Duration
	RequestTimeout      time.Duration
	RateLimitBlockTime  time.Duration
	ParallelismPerHost  int
	MaxFragmentsPerPage int
	ObeyRobots          bool
	ProxyURLs           []string

	// Output configuration
	Sink         string
	ProfilesFile string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "coupons"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		CrawlInterval:        time.Duration(getEnvInt("CRAWL_INTERVAL_SECONDS", 0)) * time.Second,
		DownloadDelay:        time.Duration(getEnvInt("DOWNLOAD_DELAY_SECONDS", 3)) * time.Second,
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RateLimitBlockTime:   time.Duration(getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 300)) * time.Second,
		ParallelismPerHost:   getEnvInt("CONCURRENT_REQUESTS_PER_DOMAIN", 1),
		MaxFragmentsPerPage:  getEnvInt("MAX_FRAGMENTS_PER_PAGE", 30),
		ObeyRobots:           getEnvBool("OBEY_ROBOTS", true),
		ProxyURLs:            getEnvList("PROXY_URLS"),
		Sink:                 strings.ToLower(getEnv("SINK", SinkFile)),
		ProfilesFile:         getEnv("PROFILES_FILE", ""),
		Environment:          getEnv("COUPON_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the crawler cannot run with
func (c *Config) Validate() error {
	if c.Sink != SinkFile && c.Sink != SinkRedis {
		return ErrInvalidSink
	}
	if c.Sink == SinkRedis {
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
		if c.RedisStreamCount < 1 {
			return ErrInvalidStreamCount
		}
	}
	if c.MaxFragmentsPerPage < 1 {
		return ErrInvalidMaxFragments
	}
	if c.ParallelismPerHost < 1 {
		return ErrInvalidParallelism
	}
	if c.DownloadDelay < 0 {
		return ErrInvalidDownloadDelay
	}
	if c.CrawlInterval < 0 {
		return ErrInvalidCrawlInterval
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
