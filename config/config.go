// Package config reads the CLI's YAML configuration file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/oceanlake/oceanlake/download"
)

type DownloadConfig struct {
	BaseURL     string `yaml:"baseURL"`
	Destination string `yaml:"destination"`
}

type Config struct {
	RootPath  string         `yaml:"rootPath"`
	Databases []string       `yaml:"databases"`
	Domain    string         `yaml:"domain"`
	Variables []string       `yaml:"variables"`
	NoQC      bool           `yaml:"noQC"`
	Download  DownloadConfig `yaml:"download"`
}

// Default is the configuration used when no file exists: discovery under the
// working directory, every cataloged database, the PHY QC universe.
func Default() *Config {
	return &Config{
		RootPath: ".",
		Download: DownloadConfig{
			BaseURL:     download.DefaultBaseURL,
			Destination: ".",
		},
	}
}

// Read loads the configuration at path, layered over Default. A missing file
// is not an error, the defaults apply.
func Read(path string) (*Config, error) {
	config := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't open configuration file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	if config.RootPath == "" {
		config.RootPath = "."
	}
	if config.Download.BaseURL == "" {
		config.Download.BaseURL = download.DefaultBaseURL
	}
	if config.Download.Destination == "" {
		config.Download.Destination = "."
	}
	return config, nil
}
