package main

import (
	"fmt"
	"path/filepath"

	"github.com/leadpilot/leadpilot/internal/ai"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/learning"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/predict"
	"github.com/leadpilot/leadpilot/internal/store"
)

// app bundles the per-command wiring: config, store, and logger.
// Commands open it, use what they need, and close it.
type app struct {
	cfg    *config.Config
	store  *store.Store
	logger *logging.DebugLogger
}

// openApp loads configuration and opens the persisted store.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Store.DBPath
	if dbPath == "" {
		dbPath = store.DefaultDBPath()
	}

	logger := logging.NopLogger()
	if cfg.Store.DebugLog {
		logger = logging.NewDebugLoggerForDataDir(filepath.Dir(dbPath))
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.SetLogger(logger)

	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &app{cfg: cfg, store: s, logger: logger}, nil
}

func (a *app) close() {
	a.store.Close()
	a.logger.Close()
}

// engine builds the weight engine, attaching the text-generation
// collaborator when one is configured.
func (a *app) engine() *learning.Engine {
	var gen learning.SubjectGenerator
	if client := ai.FromConfig(a.cfg); client != nil {
		gen = client
	}
	return learning.NewEngine(a.store, gen)
}

// predictor builds the predictive engine, attaching the external
// scoring collaborator when enabled.
func (a *app) predictor() *predict.Predictor {
	var scorer predict.LeadScorer
	if a.cfg.AI.Scoring {
		if client := ai.FromConfig(a.cfg); client != nil {
			scorer = client
		}
	}
	return predict.NewPredictor(a.store, scorer)
}
