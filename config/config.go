package config

import (
	"bytes"
	"os"

	"github.com/adrianliechti/furnish/pkg/auth"
	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/store"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	completer map[string]provider.Completer
	renderer  map[string]provider.Renderer
	detector  map[string]detector.Detector

	Store store.Provider
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerCompleters(file); err != nil {
		return nil, err
	}

	if err := c.registerRenderers(file); err != nil {
		return nil, err
	}

	if err := c.registerDetectors(file); err != nil {
		return nil, err
	}

	if err := c.registerStore(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Completers yaml.Node `yaml:"completers"`
	Renderers  yaml.Node `yaml:"renderers"`
	Detectors  yaml.Node `yaml:"detectors"`

	Store *storeConfig `yaml:"store"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
