package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/furnish/pkg/limiter"
	"github.com/adrianliechti/furnish/pkg/otel"
	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/provider/anthropic"
	"github.com/adrianliechti/furnish/pkg/provider/openai"
)

func (cfg *Config) RegisterCompleter(id string, p provider.Completer) {
	if cfg.completer == nil {
		cfg.completer = make(map[string]provider.Completer)
	}

	if _, ok := cfg.completer[""]; !ok {
		cfg.completer[""] = p
	}

	cfg.completer[id] = p
}

func (cfg *Config) Completer(id string) (provider.Completer, error) {
	if cfg.completer != nil {
		if c, ok := cfg.completer[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("completer not found: " + id)
}

type completerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`
}

func (cfg *Config) registerCompleters(f *configFile) error {
	var configs map[string]completerConfig

	if err := f.Completers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Completers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		completer, err := createCompleter(config)

		if err != nil {
			return err
		}

		if _, ok := completer.(limiter.Completer); !ok {
			completer = limiter.NewCompleter(createLimiter(config.Limit), completer)
		}

		if _, ok := completer.(otel.Completer); !ok {
			completer = otel.NewCompleter(config.Type, config.Model, completer)
		}

		cfg.RegisterCompleter(id, completer)
	}

	return nil
}

func createCompleter(cfg completerConfig) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai":
		return openaiCompleter(cfg)

	case "anthropic":
		return anthropicCompleter(cfg)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func openaiCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	return openai.NewCompleter(cfg.URL, cfg.Model, options...)
}

func anthropicCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []anthropic.Option

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	return anthropic.NewCompleter(cfg.URL, cfg.Model, options...)
}
