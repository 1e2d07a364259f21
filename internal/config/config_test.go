package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "onze-coach-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 120*time.Second {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if cfg.BulkWorkers != 4 {
		t.Fatalf("unexpected BulkWorkers: %d", cfg.BulkWorkers)
	}
	if cfg.ScoreMinStarterMatches != 5 {
		t.Fatalf("unexpected ScoreMinStarterMatches: %d", cfg.ScoreMinStarterMatches)
	}
	if cfg.ScoreLowThreshold != 4.0 {
		t.Fatalf("unexpected ScoreLowThreshold: %v", cfg.ScoreLowThreshold)
	}
	if cfg.DefaultChampionship != "fr-ligue-1" {
		t.Fatalf("unexpected DefaultChampionship: %q", cfg.DefaultChampionship)
	}
	if got := cfg.APIFootballLeagueByChamp["fr-ligue-1"]; got != 61 {
		t.Fatalf("expected default league map fr-ligue-1:61, got=%d", got)
	}
}

func TestLoad_APIFootballRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_ENABLED", "true")
	t.Setenv("APIFOOTBALL_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APIFOOTBALL_ENABLED=true without APIFOOTBALL_TOKEN")
	}
}

func TestLoad_StatsFeedRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATSFEED_ENABLED", "true")
	t.Setenv("STATSFEED_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STATSFEED_ENABLED=true without STATSFEED_TOKEN")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_LeagueMapParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_LEAGUE_ID_MAP", "fr-ligue-1:61, en-premier-league:39")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.APIFootballLeagueByChamp["en-premier-league"]; got != 39 {
		t.Fatalf("expected en-premier-league:39, got=%d", got)
	}
}

func TestLoad_LeagueMapRejectsMalformedItems(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_LEAGUE_ID_MAP", "fr-ligue-1=61")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed league map item")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}

func TestLoad_ScoreOverrideValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCORE_LOW_THRESHOLD", "11")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SCORE_LOW_THRESHOLD out of range")
	}
}
