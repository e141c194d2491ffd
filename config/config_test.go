package config

import (
	"os"
	"testing"
	"time"
)

// chdirTemp moves into an empty directory so no config.yaml or .env is picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalDir) })
	os.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, name := range []string{
			"PRICELENS_SERVER_PORT",
			"PRICELENS_SERVER_ENVIRONMENT",
			"PRICELENS_SERVER_ALLOWED_ORIGINS",
			"PRICELENS_RAPIDAPI_API_KEY",
			"PRICELENS_RAPIDAPI_BASE_URL",
			"PRICELENS_RAPIDAPI_LIMIT",
			"PRICELENS_RAPIDAPI_TIMEOUT",
			"PRICELENS_LOG_LEVEL",
			"PRICELENS_RATELIMIT_PER_IP",
			"PRICELENS_RATELIMIT_BURST",
			"RAPIDAPI_KEY",
		} {
			os.Unsetenv(name)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if !cfg.IsDevelopment() {
			t.Error("IsDevelopment() = false, want true")
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
			t.Errorf("Server.AllowedOrigins = %v, want [http://localhost:3000]", cfg.Server.AllowedOrigins)
		}
		if cfg.RapidAPI.BaseURL != "https://real-time-product-search.p.rapidapi.com" {
			t.Errorf("RapidAPI.BaseURL = %s", cfg.RapidAPI.BaseURL)
		}
		if cfg.RapidAPI.Country != "in" || cfg.RapidAPI.Language != "en" {
			t.Errorf("RapidAPI country/language = %s/%s, want in/en", cfg.RapidAPI.Country, cfg.RapidAPI.Language)
		}
		if cfg.RapidAPI.Limit != 50 {
			t.Errorf("RapidAPI.Limit = %d, want 50", cfg.RapidAPI.Limit)
		}
		if cfg.RapidAPI.SortBy != "BEST_MATCH" {
			t.Errorf("RapidAPI.SortBy = %s, want BEST_MATCH", cfg.RapidAPI.SortBy)
		}
		if cfg.RapidAPI.Timeout != 30*time.Second {
			t.Errorf("RapidAPI.Timeout = %v, want 30s", cfg.RapidAPI.Timeout)
		}
		if cfg.RapidAPI.APIKey != "" {
			t.Errorf("RapidAPI.APIKey = %q, want empty", cfg.RapidAPI.APIKey)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Burst != 10 {
			t.Errorf("RateLimit.Burst = %d, want 10", cfg.RateLimit.Burst)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		os.Setenv("PRICELENS_SERVER_PORT", "9090")
		os.Setenv("PRICELENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRICELENS_RAPIDAPI_API_KEY", "custom-api-key")
		os.Setenv("PRICELENS_RAPIDAPI_BASE_URL", "https://custom.api.com")
		os.Setenv("PRICELENS_RAPIDAPI_LIMIT", "20")
		os.Setenv("PRICELENS_RAPIDAPI_TIMEOUT", "10s")
		os.Setenv("PRICELENS_LOG_LEVEL", "debug")
		os.Setenv("PRICELENS_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.RapidAPI.APIKey != "custom-api-key" {
			t.Errorf("RapidAPI.APIKey = %s, want custom-api-key", cfg.RapidAPI.APIKey)
		}
		if cfg.RapidAPI.BaseURL != "https://custom.api.com" {
			t.Errorf("RapidAPI.BaseURL = %s, want https://custom.api.com", cfg.RapidAPI.BaseURL)
		}
		if cfg.RapidAPI.Limit != 20 {
			t.Errorf("RapidAPI.Limit = %d, want 20", cfg.RapidAPI.Limit)
		}
		if cfg.RapidAPI.Timeout != 10*time.Second {
			t.Errorf("RapidAPI.Timeout = %v, want 10s", cfg.RapidAPI.Timeout)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("reads the bare RAPIDAPI_KEY variable", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		os.Setenv("RAPIDAPI_KEY", "plain-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.RapidAPI.APIKey != "plain-key" {
			t.Errorf("RapidAPI.APIKey = %s, want plain-key", cfg.RapidAPI.APIKey)
		}
	})

	t.Run("loads .env file", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		defer cleanupEnv()

		if err := os.WriteFile(".env", []byte("PRICELENS_RAPIDAPI_API_KEY=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.RapidAPI.APIKey != "from-dotenv" {
			t.Errorf("RapidAPI.APIKey = %s, want from-dotenv", cfg.RapidAPI.APIKey)
		}
	})

	t.Run("fails validation for invalid environment", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		os.Setenv("PRICELENS_SERVER_ENVIRONMENT", "moon")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid environment")
		}
	})

	t.Run("fails validation for out of range limit", func(t *testing.T) {
		chdirTemp(t)
		cleanupEnv()
		os.Setenv("PRICELENS_RAPIDAPI_LIMIT", "500")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for limit above 100")
		}
	})
}

func TestAPIKeyFunc(t *testing.T) {
	os.Unsetenv("PRICELENS_RAPIDAPI_API_KEY")
	os.Unsetenv("RAPIDAPI_KEY")
	defer os.Unsetenv("PRICELENS_RAPIDAPI_API_KEY")
	defer os.Unsetenv("RAPIDAPI_KEY")

	cfg := &Config{RapidAPI: RapidAPIConfig{APIKey: "from-config"}}
	key := cfg.APIKeyFunc()

	if got := key(); got != "from-config" {
		t.Errorf("key() = %q, want from-config", got)
	}

	// Read at call time, not when the func was built
	os.Setenv("RAPIDAPI_KEY", "bare")
	if got := key(); got != "bare" {
		t.Errorf("key() = %q, want bare", got)
	}

	os.Setenv("PRICELENS_RAPIDAPI_API_KEY", "prefixed")
	if got := key(); got != "prefixed" {
		t.Errorf("key() = %q, want prefixed", got)
	}

	empty := (&Config{}).APIKeyFunc()
	os.Unsetenv("PRICELENS_RAPIDAPI_API_KEY")
	os.Unsetenv("RAPIDAPI_KEY")
	if got := empty(); got != "" {
		t.Errorf("key() = %q, want empty", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)

		os.Setenv("TEST_OVERRIDE", "existing-value")

		err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", Environment: "production"},
			RapidAPI: RapidAPIConfig{
				BaseURL:  "https://real-time-product-search.p.rapidapi.com",
				Host:     "real-time-product-search.p.rapidapi.com",
				Country:  "in",
				Language: "en",
				Limit:    50,
				SortBy:   "BEST_MATCH",
				Timeout:  30 * time.Second,
			},
			Log: LogConfig{Level: "info"},
		}
	}

	t.Run("validates successfully without an API key", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for non-numeric port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = "http"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for port")
		}
	})

	t.Run("fails for malformed base URL", func(t *testing.T) {
		cfg := valid()
		cfg.RapidAPI.BaseURL = "not a url"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for base URL")
		}
	})

	t.Run("fails for unknown log level", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "trace"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for log level")
		}
	})

	t.Run("fails for zero timeout", func(t *testing.T) {
		cfg := valid()
		cfg.RapidAPI.Timeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for timeout")
		}
	})
}
