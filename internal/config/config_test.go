package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("LEXICON_DB_DRIVER", "none")
	t.Setenv("ADMIN_API_KEY", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Server.Port != 40620 {
		t.Errorf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Cache.LocalEntries != 4096 || cfg.Cache.LocalTTL != 10*time.Minute {
		t.Errorf("unexpected local cache: %+v", cfg.Cache)
	}
	if !cfg.Cache.RemoteEnabled || cfg.Cache.RemoteTTL != 24*time.Hour {
		t.Errorf("unexpected remote cache: %+v", cfg.Cache)
	}
	if cfg.RateLimit.RPS != 0 {
		t.Errorf("rate limit should be off by default: %+v", cfg.RateLimit)
	}
	if cfg.Database.Enabled() {
		t.Errorf("database should be disabled")
	}
	if !cfg.Valkey.Enabled {
		t.Errorf("request streams should be enabled by default")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LEXICON_DB_DRIVER", "sqlite")
	t.Setenv("ANSWER_CACHE_REMOTE_ENABLED", "false")
	t.Setenv("MQ_ENABLED", "false")
	t.Setenv("ANSWER_CACHE_LOCAL_ENTRIES", "32")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_RATE_LIMIT_BURST", "5")
	t.Setenv("ADMIN_API_KEY", "k")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Cache.RemoteEnabled || cfg.Valkey.Enabled {
		t.Errorf("valkey should be off: %+v %+v", cfg.Cache, cfg.Valkey)
	}
	if cfg.Cache.LocalEntries != 32 {
		t.Errorf("unexpected entries: %d", cfg.Cache.LocalEntries)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.RateLimit.Burst != 5 {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Admin.APIKey != "k" || !cfg.Database.Enabled() {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("LEXICON_DB_DRIVER", "none")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "-1")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error for negative rps")
	}
}
