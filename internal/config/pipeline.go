package config

import (
	"fmt"
	"log/slog"
)

// PipelineEnv is the environment-driven tuning surface of a run: pool-size
// floors, selection quotas, and the run profile. Every field loads with the
// same fail-open strategy the scheduler config uses: a bad value falls back
// to the default with a warning, it never aborts the process.
type PipelineEnv struct {
	// MinTotalItems is Z0_MIN_TOTAL_ITEMS, the pool-size floor of the Z0
	// hard gate. The Supply Fallback trigger is a separate threshold
	// (supply.MinTotalItems).
	MinTotalItems int

	// MinFrontier85_72h is Z0_MIN_FRONTIER85_72H, the 72-hour frontier
	// quality floor.
	MinFrontier85_72h int

	// AllowDegraded is Z0_ALLOW_DEGRADED; when set, MinFrontier85Fallback
	// replaces MinFrontier85_72h as the effective floor.
	AllowDegraded bool

	// MinFrontier85Fallback is Z0_MIN_FRONTIER85_72H_FALLBACK.
	MinFrontier85Fallback int

	// Selection quotas: EXEC_MIN_EVENTS / EXEC_MIN_PRODUCT / EXEC_MIN_TECH /
	// EXEC_MIN_BUSINESS.
	MinEvents   int
	MinProduct  int
	MinTech     int
	MinBusiness int

	// RunProfile is RUN_PROFILE: "calibration" or "production".
	RunProfile string

	// SourcesFile is SOURCES_FILE, the YAML source catalog path.
	SourcesFile string
}

// DefaultPipelineEnv carries the documented defaults.
func DefaultPipelineEnv() PipelineEnv {
	return PipelineEnv{
		MinTotalItems:         800,
		MinFrontier85_72h:     10,
		MinFrontier85Fallback: 4,
		MinEvents:             6,
		MinProduct:            2,
		MinTech:               2,
		MinBusiness:           2,
		RunProfile:            "production",
		SourcesFile:           "sources.yaml",
	}
}

// EffectiveFrontierFloor resolves the frontier-quality floor after the
// degraded-mode override.
func (p PipelineEnv) EffectiveFrontierFloor() int {
	if p.AllowDegraded {
		return p.MinFrontier85Fallback
	}
	return p.MinFrontier85_72h
}

// LoadPipelineEnv reads the pipeline tuning surface from the environment,
// logging one warning per fallback applied.
func LoadPipelineEnv(logger *slog.Logger) PipelineEnv {
	p := DefaultPipelineEnv()

	loadInt := func(key string, dst *int, min, max int) {
		result := LoadEnvInt(key, *dst, func(v int) error {
			return ValidateIntRange(v, min, max)
		})
		*dst = result.Value.(int)
		for _, w := range result.Warnings {
			logger.Warn("configuration fallback applied", slog.String("env_key", key), slog.String("warning", w))
		}
	}

	loadInt("Z0_MIN_TOTAL_ITEMS", &p.MinTotalItems, 0, 1_000_000)
	loadInt("Z0_MIN_FRONTIER85_72H", &p.MinFrontier85_72h, 0, 10_000)
	loadInt("Z0_MIN_FRONTIER85_72H_FALLBACK", &p.MinFrontier85Fallback, 0, 10_000)
	loadInt("EXEC_MIN_EVENTS", &p.MinEvents, 1, 100)
	loadInt("EXEC_MIN_PRODUCT", &p.MinProduct, 0, 100)
	loadInt("EXEC_MIN_TECH", &p.MinTech, 0, 100)
	loadInt("EXEC_MIN_BUSINESS", &p.MinBusiness, 0, 100)

	degraded := LoadEnvBool("Z0_ALLOW_DEGRADED", false)
	p.AllowDegraded = degraded.Value.(bool)
	for _, w := range degraded.Warnings {
		logger.Warn("configuration fallback applied", slog.String("env_key", "Z0_ALLOW_DEGRADED"), slog.String("warning", w))
	}

	profile := LoadEnvString("RUN_PROFILE", p.RunProfile)
	if profile != "calibration" && profile != "production" {
		logger.Warn("configuration fallback applied",
			slog.String("env_key", "RUN_PROFILE"),
			slog.String("warning", fmt.Sprintf("unknown profile %q, using %q", profile, p.RunProfile)))
	} else {
		p.RunProfile = profile
	}

	p.SourcesFile = LoadEnvString("SOURCES_FILE", p.SourcesFile)

	return p
}
