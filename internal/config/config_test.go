package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.SnapshotFetchTimeout != "30s" {
		t.Errorf("SnapshotFetchTimeout = %q, want %q", cfg.SnapshotFetchTimeout, "30s")
	}
	if cfg.ReconcileTimeout != "2m" {
		t.Errorf("ReconcileTimeout = %q, want %q", cfg.ReconcileTimeout, "2m")
	}
	if cfg.OnboardingTopic != "client-onboarded-providers" {
		t.Errorf("OnboardingTopic = %q, want default", cfg.OnboardingTopic)
	}
	if cfg.OnboardingGroupID != "provider-onboarding-worker" {
		t.Errorf("OnboardingGroupID = %q, want default", cfg.OnboardingGroupID)
	}
	if cfg.ChangeTopic != "provider-onboarding-changed" {
		t.Errorf("ChangeTopic = %q, want default", cfg.ChangeTopic)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
	if cfg.DeadLetterTopic != "" {
		t.Errorf("DeadLetterTopic = %q, want empty", cfg.DeadLetterTopic)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("PROVIDERS_BASE_URL", "http://providers.internal")
	os.Setenv("WORKER_COUNT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.ProvidersBaseURL != "http://providers.internal" {
		t.Errorf("ProvidersBaseURL = %q, want override", cfg.ProvidersBaseURL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
}

func TestLoad_InvalidWorkerCount(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("WORKER_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject WORKER_COUNT=0")
	}
}

func TestFetchTimeout(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"valid", "5s", 5 * time.Second},
		{"invalid", "nonsense", 30 * time.Second},
		{"empty", "", 30 * time.Second},
		{"negative", "-1s", 30 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{SnapshotFetchTimeout: tc.raw}
			if got := cfg.FetchTimeout(); got != tc.want {
				t.Errorf("FetchTimeout() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReconcileDeadline(t *testing.T) {
	cfg := &Config{ReconcileTimeout: "90s"}
	if got := cfg.ReconcileDeadline(); got != 90*time.Second {
		t.Errorf("ReconcileDeadline() = %v, want 90s", got)
	}
	cfg = &Config{}
	if got := cfg.ReconcileDeadline(); got != 2*time.Minute {
		t.Errorf("ReconcileDeadline() = %v, want 2m", got)
	}
}

func TestKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", "", 0},
		{"single", "localhost:9092", 1},
		{"multiple", "a:9092,b:9092", 2},
		{"whitespace and empties", " a:9092 , , b:9092 ", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{KafkaBrokers: tc.raw}
			got := cfg.KafkaBrokersList()
			if len(got) != tc.want {
				t.Errorf("KafkaBrokersList() = %v, want %d entries", got, tc.want)
			}
			for _, b := range got {
				if b == "" {
					t.Error("KafkaBrokersList() returned empty broker")
				}
			}
		})
	}
}

func TestKafkaBrokersList_NilReceiver(t *testing.T) {
	var cfg *Config
	if got := cfg.KafkaBrokersList(); got != nil {
		t.Errorf("nil receiver should return nil, got %v", got)
	}
}
