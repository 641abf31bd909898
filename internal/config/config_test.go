package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.NATSSubject != "predictions.recorded" {
		t.Fatalf("NATSSubject = %q", cfg.NATSSubject)
	}
	if cfg.KNNNeighbors != 3 || cfg.TrainSampleCap != 200 || cfg.TrainSeed != 42 {
		t.Fatalf("training defaults = (%d, %d, %d)", cfg.KNNNeighbors, cfg.TrainSampleCap, cfg.TrainSeed)
	}
	if cfg.DataFetchTimeout != 10*time.Second {
		t.Fatalf("DataFetchTimeout = %v, want 10s", cfg.DataFetchTimeout)
	}
	if cfg.RecentPredictionsLimit != 20 {
		t.Fatalf("RecentPredictionsLimit = %d, want 20", cfg.RecentPredictionsLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("KNN_NEIGHBORS", "5")
	t.Setenv("TRAIN_SEED", "7")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("DATA_FETCH_TIMEOUT", "3s")

	cfg := Load()
	if cfg.APIPort != "9999" {
		t.Fatalf("APIPort = %q, want 9999", cfg.APIPort)
	}
	if cfg.KNNNeighbors != 5 {
		t.Fatalf("KNNNeighbors = %d, want 5", cfg.KNNNeighbors)
	}
	if cfg.TrainSeed != 7 {
		t.Fatalf("TrainSeed = %d, want 7", cfg.TrainSeed)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("APIRateLimitRPS = %v, want 2.5", cfg.APIRateLimitRPS)
	}
	if cfg.DataFetchTimeout != 3*time.Second {
		t.Fatalf("DataFetchTimeout = %v, want 3s", cfg.DataFetchTimeout)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("KNN_NEIGHBORS", "many")
	t.Setenv("DATA_FETCH_TIMEOUT", "soon")

	cfg := Load()
	if cfg.KNNNeighbors != 3 {
		t.Fatalf("KNNNeighbors = %d, want fallback 3", cfg.KNNNeighbors)
	}
	if cfg.DataFetchTimeout != 10*time.Second {
		t.Fatalf("DataFetchTimeout = %v, want fallback 10s", cfg.DataFetchTimeout)
	}
}
