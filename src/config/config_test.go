package config

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	jsonFolder := "../../config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"

	cfg, dcfg, err := LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Data.RawPath == "" {
		t.Error("raw_path not loaded")
	}
	if cfg.Data.Delimiter == "" {
		t.Error("delimiter not loaded")
	}
	if time.Duration(cfg.Data.RefreshInterval) <= 0 {
		t.Error("refresh_interval not loaded")
	}

	if dcfg.RatingColors["excellent"] != "darkgreen" {
		t.Errorf("rating colors not loaded: %+v", dcfg.RatingColors)
	}
	if dcfg.PriceTiers.Cheap <= 0 || dcfg.PriceTiers.Cheap >= dcfg.PriceTiers.Expensive {
		t.Errorf("price tiers not ordered: %+v", dcfg.PriceTiers)
	}
	if len(dcfg.RequiredColumns) != len(RawColumns()) {
		t.Errorf("required columns = %d, want %d", len(dcfg.RequiredColumns), len(RawColumns()))
	}
}

func TestDurationJSONRoundTrip(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"5m"`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if time.Duration(d) != 5*time.Minute {
		t.Errorf("duration = %v, want 5m", time.Duration(d))
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"5m0s"` {
		t.Errorf("marshal = %s, want \"5m0s\"", out)
	}
}

func TestDefaultDataConfig(t *testing.T) {
	dcfg := DefaultDataConfig()

	for _, bucket := range []string{"excellent", "good", "average", "below_average", "poor"} {
		if dcfg.GetRatingColor(bucket) == "" {
			t.Errorf("no color for bucket %s", bucket)
		}
	}
}
