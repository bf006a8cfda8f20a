package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileValues mirrors the optional YAML config file. Any field left empty
// falls back to the environment-backed defaults.
type fileValues struct {
	AppName   string `yaml:"app_name"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
	LogLevel  string `yaml:"log_level"`
}

type fileConfig struct {
	mainConfig
	values fileValues
}

var _ Config = fileConfig{}

// FromFile loads configuration from a YAML file layered over the environment.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var values fileValues
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return fileConfig{values: values}, nil
}

func (c fileConfig) GetAppName() string {
	if c.values.AppName != "" {
		return c.values.AppName
	}
	return c.mainConfig.GetAppName()
}

func (c fileConfig) GetBaseURL() string {
	if c.values.BaseURL != "" {
		return c.values.BaseURL
	}
	return c.mainConfig.GetBaseURL()
}

func (c fileConfig) GetRequestTimeout() time.Duration {
	if c.values.TimeoutMS > 0 {
		return time.Duration(c.values.TimeoutMS) * time.Millisecond
	}
	return c.mainConfig.GetRequestTimeout()
}

func (c fileConfig) GetLogLevel() string {
	if c.values.LogLevel != "" {
		return c.values.LogLevel
	}
	return c.mainConfig.GetLogLevel()
}
