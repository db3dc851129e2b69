package config

import "fmt"

// upgrades[v] moves a version v config to v+1.
var upgrades = map[int]func(*Config){
	1: addServerSection,
}

// migrate brings cfg up to CurrentVersion one step at a time. Configs written
// by a newer taskdeck are rejected rather than downgraded.
func migrate(cfg *Config) error {
	switch {
	case cfg.Version > CurrentVersion:
		return fmt.Errorf("%w: config version %d is newer than supported version %d (upgrade taskdeck)",
			ErrInvalid, cfg.Version, CurrentVersion)
	case cfg.Version < 1:
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for v := cfg.Version; v < CurrentVersion; v++ {
		up, ok := upgrades[v]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, v)
		}
		up(cfg)
		cfg.Version = v + 1
	}
	return nil
}

// addServerSection fills the server block introduced with `taskdeck serve`
// along with the diagnostic log default.
func addServerSection(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Database == "" {
		cfg.Server.Database = DefaultDatabase
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = append([]string{}, DefaultCORSOrigins...)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile
	}
}
