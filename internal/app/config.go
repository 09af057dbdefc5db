package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PresetID    string // id of the preset to run as a canvas
	PresetsPath string // extra .hcl preset files
	WidgetsPath string // extra .json widget manifests

	StateDBPath string // sqlite file for widget state; empty keeps state in memory

	GatewayPort     int
	HealthcheckPort int
	LogFormat       string
	LogLevel        string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PresetID == "" {
		return nil, errors.New("PresetID is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
