package config

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/JustinTDCT/SkipVault/internal/analysis"
)

// Settings keys for the analysis run, stored in system_settings so the API
// can change them between runs.
const (
	KeyMaxParallelism  = "analysis_max_parallelism"
	KeyIncludeSpecials = "analysis_include_specials"
	KeyRegenerate      = "regenerate_markers"
	KeyOutputMode      = "marker_output_mode"
	KeySchedule        = "analysis_schedule"

	DefaultMaxParallelism = 2
	DefaultOutputMode     = analysis.OutputOnChange
	DefaultSchedule       = "0 3 * * *"
)

type settingsStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// AnalysisConfig adapts the settings table to the scheduler's ConfigStore.
type AnalysisConfig struct {
	settings settingsStore
}

func NewAnalysisConfig(settings settingsStore) *AnalysisConfig {
	return &AnalysisConfig{settings: settings}
}

// RunConfig reads the run-scoped settings once, applying defaults for
// unset or unparsable values.
func (c *AnalysisConfig) RunConfig() (analysis.RunConfig, error) {
	cfg := analysis.RunConfig{
		MaxParallelism: DefaultMaxParallelism,
		OutputMode:     DefaultOutputMode,
	}

	raw, err := c.settings.Get(KeyMaxParallelism)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", KeyMaxParallelism, err)
	}
	if n := cast.ToInt(raw); n > 0 {
		cfg.MaxParallelism = n
	}

	raw, err = c.settings.Get(KeyIncludeSpecials)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", KeyIncludeSpecials, err)
	}
	cfg.IncludeSpecials = cast.ToBool(raw)

	raw, err = c.settings.Get(KeyRegenerate)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", KeyRegenerate, err)
	}
	cfg.ForceRegenerate = cast.ToBool(raw)

	raw, err = c.settings.Get(KeyOutputMode)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", KeyOutputMode, err)
	}
	switch analysis.OutputMode(raw) {
	case analysis.OutputNone, analysis.OutputOnChange, analysis.OutputAlways:
		cfg.OutputMode = analysis.OutputMode(raw)
	}

	return cfg, nil
}

// ClearForceRegenerate persists the one-shot flag back to false.
func (c *AnalysisConfig) ClearForceRegenerate() error {
	return c.settings.Set(KeyRegenerate, "false")
}

// OutputMode returns the current marker output mode, defaulting when the
// setting is unset or unrecognized.
func (c *AnalysisConfig) OutputMode() analysis.OutputMode {
	raw, err := c.settings.Get(KeyOutputMode)
	if err != nil {
		return DefaultOutputMode
	}
	switch analysis.OutputMode(raw) {
	case analysis.OutputNone, analysis.OutputOnChange, analysis.OutputAlways:
		return analysis.OutputMode(raw)
	}
	return DefaultOutputMode
}

// Schedule returns the cron expression for the recurring trigger.
func (c *AnalysisConfig) Schedule() string {
	raw, err := c.settings.Get(KeySchedule)
	if err != nil || raw == "" {
		return DefaultSchedule
	}
	return raw
}
