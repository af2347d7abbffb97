package config

import (
	"sort"

	"github.com/san-kum/chaoseq/internal/trail"
)

var Presets = map[string]*Config{
	"classic": {
		Speed: 3.0, Trail: "long", Palette: trail.PaletteRandom, Shuffle: true, Restart: RestartContinue,
	},
	"calm": {
		Speed: 1.0, Trail: "long", Palette: trail.PaletteSpectrum, Shuffle: true, Restart: RestartRewind, SkipWarmup: true,
	},
	"frenetic": {
		Speed: 10.0, Trail: "short", Palette: trail.PaletteRandom, Shuffle: true, Restart: RestartRewind,
	},
	"study": {
		Speed: 0.1, Trail: "persistent", Palette: trail.PaletteMono, Shuffle: false, Restart: RestartRewind,
	},
}

// GetPreset returns a full config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Speed = p.Speed
	cfg.Trail = p.Trail
	cfg.Palette = p.Palette
	cfg.Shuffle = p.Shuffle
	cfg.Restart = p.Restart
	cfg.SkipWarmup = p.SkipWarmup
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
