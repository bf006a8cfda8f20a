package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type ClientConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Client
}

func New() Config {
	return mainConfig{}
}
