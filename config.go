package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"garnet/emu"
	"garnet/emu/log"
	"garnet/hw"
)

type Config struct {
	Audio   AudioConfig   `toml:"audio"`
	Input   InputConfig   `toml:"input"`
	General GeneralConfig `toml:"general"`
}

type AudioConfig struct {
	SampleRate int `toml:"sample_rate"`
}

type InputConfig struct {
	// Bindings maps pad button names to host key names.
	Bindings map[string]string `toml:"bindings"`
}

type GeneralConfig struct {
	// LogModules lists modules with debug logging enabled at startup.
	LogModules []string `toml:"log_modules"`
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("garnet")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the garnet config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		cfg = Config{}
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = emu.DefaultSampleRate
	}
	cfg.apply()
	return cfg
}

// SaveConfig into the garnet config directory.
func SaveConfig(cfg Config) error {
	f, err := os.Create(filepath.Join(ConfigDir, cfgFilename))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// apply enacts the startup side of the configuration and drops entries that
// do not name known buttons or modules.
func (cfg *Config) apply() {
	for name := range cfg.Input.Bindings {
		if _, ok := hw.ButtonByName(name); !ok {
			log.ModInput.WarnZ("unknown button in config").String("button", name).End()
			delete(cfg.Input.Bindings, name)
		}
	}
	for _, name := range cfg.General.LogModules {
		mod, ok := log.ModuleByName(name)
		if !ok {
			log.ModEmu.WarnZ("unknown log module in config").String("module", name).End()
			continue
		}
		log.EnableDebugModules(mod.Mask())
	}
}
