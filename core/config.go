package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		AllowOrigins    []string
		TrustedProxies  []string // CIDR ranges allowed to set X-Forwarded-For
		DisableReqLogs  bool
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	AuthConfig struct {
		JWTSecret    string // when empty, signatures are left to the platform
		RequiredRole string
	}

	AIConfig struct {
		BaseURL    string
		APIKey     string
		ChatModel  string
		ImageModel string
		Timeout    time.Duration

		TranscriptionBaseURL       string
		TranscriptionAPIKey        string
		TranscriptionModel         string
		TranscriptionFallbackModel string
	}

	EmailConfig struct {
		SendgridAPIKey   string
		DefaultFromEmail string
		FromName         string
		AdminEmail       string
		FrontendBaseURL  string
	}

	StorageConfig struct {
		Endpoint      string
		Region        string
		Bucket        string
		AccessKey     string
		SecretKey     string
		UsePathStyle  bool
		PublicBaseURL string
	}

	CacheConfig struct {
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		SearchTTL     time.Duration
	}

	DatabaseConfig struct {
		URL          string
		MaxOpenConns int
	}

	RateLimitConfig struct {
		ContactPerMinute int
		ContactBurst     int
	}

	LogConfig struct {
		Level  string // debug, info, warn, error
		Format string // json, console
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string

		Server    ServerConfig
		Auth      AuthConfig
		AI        AIConfig
		Email     EmailConfig
		Storage   StorageConfig
		Cache     CacheConfig
		Database  DatabaseConfig
		RateLimit RateLimitConfig
		Log       LogConfig
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("appname", "Global Education Gateway")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbartoken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.alloworigins", []string{"*"})
	v.SetDefault("server.trustedproxies", []string{})
	v.SetDefault("server.disablereqlogs", false)
	v.SetDefault("server.readtimeout", 30*time.Second)
	v.SetDefault("server.writetimeout", 120*time.Second)
	v.SetDefault("server.shutdowntimeout", 10*time.Second)

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.requiredrole", "authenticated")

	v.SetDefault("ai.baseurl", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("ai.apikey", "")
	v.SetDefault("ai.chatmodel", "google/gemini-2.5-flash")
	v.SetDefault("ai.imagemodel", "google/gemini-2.5-flash-image-preview")
	v.SetDefault("ai.timeout", 90*time.Second)
	v.SetDefault("ai.transcriptionbaseurl", "https://api.openai.com/v1")
	v.SetDefault("ai.transcriptionapikey", "")
	v.SetDefault("ai.transcriptionmodel", "gpt-4o-mini-transcribe")
	v.SetDefault("ai.transcriptionfallbackmodel", "whisper-1")

	v.SetDefault("email.sendgridapikey", "")
	v.SetDefault("email.defaultfromemail", "noreply@localhost")
	v.SetDefault("email.fromname", "Global Education Gateway")
	v.SetDefault("email.adminemail", "admin@localhost")
	v.SetDefault("email.frontendbaseurl", "http://localhost:5173")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "university-media")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.usepathstyle", true)
	v.SetDefault("storage.publicbaseurl", "")

	v.SetDefault("cache.redisaddr", "")
	v.SetDefault("cache.redispassword", "")
	v.SetDefault("cache.redisdb", 0)
	v.SetDefault("cache.searchttl", time.Hour)

	v.SetDefault("database.url", "")
	v.SetDefault("database.maxopenconns", 5)

	v.SetDefault("ratelimit.contactperminute", 5)
	v.SetDefault("ratelimit.contactburst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// stringList reads a list that may be given as a comma and/or space separated string.
func stringList(v *viper.Viper, key string) []string {
	items := make([]string, 0)
	for _, raw := range v.GetStringSlice(key) {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// NewConfig loads the configuration from the environment.
// Variables are prefixed with the upper-cased ENV (DEV by default), e.g. DEV_AI_APIKEY.
// A `config/.env.<env>` file relative to the working directory is loaded first if it exists.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	if env == "TEST" {
		v.SetDefault("testmode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testmode"),
		AppName:      v.GetString("appname"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbartoken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			AllowOrigins:    stringList(v, "server.alloworigins"),
			TrustedProxies:  stringList(v, "server.trustedproxies"),
			DisableReqLogs:  v.GetBool("server.disablereqlogs"),
			ReadTimeout:     v.GetDuration("server.readtimeout"),
			WriteTimeout:    v.GetDuration("server.writetimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdowntimeout"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("auth.jwtsecret"),
			RequiredRole: v.GetString("auth.requiredrole"),
		},
		AI: AIConfig{
			BaseURL:                    v.GetString("ai.baseurl"),
			APIKey:                     v.GetString("ai.apikey"),
			ChatModel:                  v.GetString("ai.chatmodel"),
			ImageModel:                 v.GetString("ai.imagemodel"),
			Timeout:                    v.GetDuration("ai.timeout"),
			TranscriptionBaseURL:       v.GetString("ai.transcriptionbaseurl"),
			TranscriptionAPIKey:        v.GetString("ai.transcriptionapikey"),
			TranscriptionModel:         v.GetString("ai.transcriptionmodel"),
			TranscriptionFallbackModel: v.GetString("ai.transcriptionfallbackmodel"),
		},
		Email: EmailConfig{
			SendgridAPIKey:   v.GetString("email.sendgridapikey"),
			DefaultFromEmail: v.GetString("email.defaultfromemail"),
			FromName:         v.GetString("email.fromname"),
			AdminEmail:       v.GetString("email.adminemail"),
			FrontendBaseURL:  v.GetString("email.frontendbaseurl"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			Bucket:        v.GetString("storage.bucket"),
			AccessKey:     v.GetString("storage.accesskey"),
			SecretKey:     v.GetString("storage.secretkey"),
			UsePathStyle:  v.GetBool("storage.usepathstyle"),
			PublicBaseURL: v.GetString("storage.publicbaseurl"),
		},
		Cache: CacheConfig{
			RedisAddr:     v.GetString("cache.redisaddr"),
			RedisPassword: v.GetString("cache.redispassword"),
			RedisDB:       v.GetInt("cache.redisdb"),
			SearchTTL:     v.GetDuration("cache.searchttl"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database.url"),
			MaxOpenConns: v.GetInt("database.maxopenconns"),
		},
		RateLimit: RateLimitConfig{
			ContactPerMinute: v.GetInt("ratelimit.contactperminute"),
			ContactBurst:     v.GetInt("ratelimit.contactburst"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	// the transcription API falls back to the AI gateway credentials
	if conf.AI.TranscriptionAPIKey == "" {
		conf.AI.TranscriptionAPIKey = conf.AI.APIKey
	}
	return conf, nil
}
