package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"VIDEOS_PORT", "VIDEOS_STORE_DRIVER", "VIDEOS_CORS_ORIGINS", "VIDEOS_RATE_LIMIT_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppPort != 3003 {
		t.Fatalf("expected default port 3003 got %d", cfg.AppPort)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.SQLitePath != "videos.db" {
		t.Fatalf("unexpected store defaults: %s %s", cfg.StoreDriver, cfg.SQLitePath)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Requests != 120 || cfg.RateLimit.Window != time.Minute || cfg.RateLimit.Burst != 20 {
		t.Fatalf("unexpected rate limit defaults %+v", cfg.RateLimit)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VIDEOS_PORT", "8081")
	t.Setenv("VIDEOS_STORE_DRIVER", "DynamoDB")
	t.Setenv("VIDEOS_DYNAMODB_TABLE", "catalog")
	t.Setenv("VIDEOS_DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("VIDEOS_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("VIDEOS_RATE_LIMIT_ENABLED", "false")
	t.Setenv("VIDEOS_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("VIDEOS_EXPORT_BUCKET", "exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppPort != 8081 || cfg.StoreDriver != DriverDynamoDB {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.DynamoDB.Table != "catalog" || cfg.DynamoDB.Endpoint != "http://localhost:8000" {
		t.Fatalf("unexpected dynamodb config %+v", cfg.DynamoDB)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://a.example.com", "https://b.example.com"}) {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.Enabled || cfg.ShutdownTimeout != 3*time.Second || cfg.ObjectStore.Bucket != "exports" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadPostgresPool(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VIDEOS_STORE_DRIVER", "postgres")
	t.Setenv("VIDEOS_DATABASE_URL", "postgres://videos@db:5432/videos")
	t.Setenv("VIDEOS_DATABASE_MAX_CONNS", "25")
	t.Setenv("VIDEOS_DATABASE_CONNECT_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := PostgresConfig{URL: "postgres://videos@db:5432/videos", MaxConns: 25, ConnectTimeout: 2 * time.Second}
	if cfg.Postgres != want {
		t.Fatalf("expected %+v got %+v", want, cfg.Postgres)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VIDEOS_STORE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{AppPort: 3003, StoreDriver: DriverMemory}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]Config{
		"bad port":       {AppPort: 0, StoreDriver: DriverMemory},
		"sqlite no path": {AppPort: 3003, StoreDriver: DriverSQLite},
		"pg no url":      {AppPort: 3003, StoreDriver: DriverPostgres},
		"pg bad pool":    {AppPort: 3003, StoreDriver: DriverPostgres, Postgres: PostgresConfig{URL: "postgres://localhost/videos", MaxConns: -1}},
		"bad rate limit": {AppPort: 3003, StoreDriver: DriverMemory, RateLimit: RateLimitConfig{Enabled: true}},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
