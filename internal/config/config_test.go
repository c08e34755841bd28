package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_SIGNING_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.Issuer != "authcore" {
		t.Errorf("Issuer = %q, want %q", cfg.Issuer, "authcore")
	}
	if cfg.Audience != "authcore-api" {
		t.Errorf("Audience = %q, want %q", cfg.Audience, "authcore-api")
	}
	if cfg.AccessTokenTTL != "15m" {
		t.Errorf("AccessTokenTTL = %q, want %q", cfg.AccessTokenTTL, "15m")
	}
	if cfg.SessionTTL != "168h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.SessionTTL, "168h")
	}
	if cfg.CleanupGrace != "24h" {
		t.Errorf("CleanupGrace = %q, want %q", cfg.CleanupGrace, "24h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.KafkaTopic != "auth-events" {
		t.Errorf("KafkaTopic = %q, want %q", cfg.KafkaTopic, "auth-events")
	}
}

func TestLoad_MissingSigningSecretFails(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail when AUTH_SIGNING_SECRET is unset")
	}
}

func TestLoad_ShortSigningSecretFails(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_SIGNING_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail when AUTH_SIGNING_SECRET is shorter than 32 bytes")
	}
	if !strings.Contains(err.Error(), "AUTH_SIGNING_SECRET") {
		t.Errorf("error should name the offending variable, got %v", err)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_SIGNING_SECRET", testSecret)
	os.Setenv("AUTH_ISSUER", "custom-issuer")
	os.Setenv("ACCESS_TOKEN_TTL", "5m")
	os.Setenv("BCRYPT_COST", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Issuer != "custom-issuer" {
		t.Errorf("Issuer = %q, want %q", cfg.Issuer, "custom-issuer")
	}
	if cfg.AccessTTL() != 5*time.Minute {
		t.Errorf("AccessTTL = %v, want 5m", cfg.AccessTTL())
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
}

func TestLoad_InvalidBcryptCostFails(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_SIGNING_SECRET", testSecret)
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for out-of-range BCRYPT_COST")
	}
}

func TestDurationAccessors_FallBackOnGarbage(t *testing.T) {
	cfg := &Config{
		AccessTokenTTL:  "not-a-duration",
		SessionTTL:      "-3h",
		CleanupGrace:    "",
		CleanupInterval: "zzz",
	}
	if cfg.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL fallback = %v, want 15m", cfg.AccessTTL())
	}
	if cfg.SessionLifetime() != 168*time.Hour {
		t.Errorf("SessionLifetime fallback = %v, want 168h", cfg.SessionLifetime())
	}
	if cfg.Grace() != 24*time.Hour {
		t.Errorf("Grace fallback = %v, want 24h", cfg.Grace())
	}
	if cfg.SweepInterval() != time.Hour {
		t.Errorf("SweepInterval fallback = %v, want 1h", cfg.SweepInterval())
	}
}

func TestKafkaBrokersList(t *testing.T) {
	cfg := &Config{KafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.KafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("KafkaBrokersList = %v", got)
	}

	empty := &Config{}
	if empty.KafkaBrokersList() != nil {
		t.Error("empty KafkaBrokers should yield nil list")
	}
}
