package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// envPrefix is prepended to every variable, e.g. EDA_PLOT_DIR.
const envPrefix = "EDA"

// Config holds the defaults of the command line flags.
type Config struct {
	CategoricalThreshold int    `envconfig:"CATEGORICAL_THRESHOLD" default:"12"`
	PlotDir              string `envconfig:"PLOT_DIR"`
	LogLevel             string `envconfig:"LOG_LEVEL" default:"info"`
}

// loadConfig reads dotenv (if it exists) into the environment without
// overriding variables that are already set, then processes EDA_*.
func loadConfig(dotenv string) (Config, error) {
	var cfg Config
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "load %s", dotenv)
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, errors.Mark(errors.Wrap(err, "process environment"), errors.ErrInvalidInput)
	}
	return cfg, nil
}
