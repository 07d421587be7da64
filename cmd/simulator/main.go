package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// simulator drives the engine package end-to-end against an in-memory
// sdk.Mock, narrating one or all of the scripted scenarios without needing
// a WASM runtime. Grounded on the cmd/ binary shape of the notification
// service and the replay tool: flag-parsed config path, a zap logger sized
// by cfg.LogLevel, and a non-zero exit on any scenario failure.

type scenario struct {
	name string
	run  func(*Config) error
	desc string
}

var scenarios = []scenario{
	{"s1_happy_path", runS1, "party of two completes a session with a clean gold/fee/royalty split"},
	{"s2_dm_timeout_reroll", runS2, "a non-responding DM is rerolled and its bond forfeited"},
	{"s3_reroll_to_cancel", runS3, "a two-player session reroll-cancels down to its last survivor"},
	{"s4_session_inactivity", runS4, "an idle active session times out with bonds released, not forfeited"},
	{"s5_dm_abandons", runS5, "a DM abandoning mid-turn fails the session and forfeits every bond"},
	{"s6_gold_cap", runS6, "the per-session gold pool rejects the reward that would exceed its cap"},
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

func main() {
	configPath := flag.String("config", "simulator.yml", "path to simulator config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	toRun, err := selectScenarios(cfg.Scenario)
	if err != nil {
		sugar.Fatalw("selecting scenarios", "error", err)
	}

	failed := 0
	for _, sc := range toRun {
		sugar.Infow("running scenario", "name", sc.name, "description", sc.desc)
		if err := sc.run(cfg); err != nil {
			sugar.Errorw("scenario failed", "name", sc.name, "error", err)
			failed++
			continue
		}
		sugar.Infow("scenario passed", "name", sc.name)
	}

	sugar.Infow("run complete", "total", len(toRun), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func selectScenarios(name string) ([]scenario, error) {
	if name == "" || name == "all" {
		return scenarios, nil
	}
	for _, sc := range scenarios {
		if sc.name == name {
			return []scenario{sc}, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q", name)
}
