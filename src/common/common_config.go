package common

import (
	"os"
	"path"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type CommonConfig struct {
	PromPort        string `yaml:"prom_port"`
	HealthCheckPort string `yaml:"health_check_port"`
	PostgresConfig  string `yaml:"postgres"`
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
}

// LoadConfig reads `config.yaml` from the working directory into out
func LoadConfig(out any) (string, error) {
	pwd, _ := os.Getwd()
	fullPath := path.Join(pwd, "config.yaml")
	rawCfg, err := os.ReadFile(fullPath)
	if err != nil {
		return fullPath, errors.Wrap(err, "config file not found")
	}
	if err := yaml.Unmarshal(rawCfg, out); err != nil {
		return fullPath, errors.Wrap(err, "failed parsing config file")
	}
	return fullPath, nil
}
