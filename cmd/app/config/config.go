package config

import "github.com/dn42/autopeerd/cmd/app/options"

type Config struct {
	*options.Options
}

func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{Options: opts}, nil
}