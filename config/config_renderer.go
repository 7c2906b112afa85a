package config

import (
	"errors"
	"slices"
	"strings"

	"github.com/adrianliechti/furnish/pkg/limiter"
	"github.com/adrianliechti/furnish/pkg/otel"
	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/provider/openai"
	"github.com/adrianliechti/furnish/pkg/provider/overlay"
	"github.com/adrianliechti/furnish/pkg/provider/replicate"
	"github.com/adrianliechti/furnish/pkg/provider/replicate/controlnet"
)

func (cfg *Config) RegisterRenderer(id string, p provider.Renderer) {
	if cfg.renderer == nil {
		cfg.renderer = make(map[string]provider.Renderer)
	}

	if _, ok := cfg.renderer[""]; !ok {
		cfg.renderer[""] = p
	}

	cfg.renderer[id] = p
}

func (cfg *Config) Renderer(id string) (provider.Renderer, error) {
	if cfg.renderer != nil {
		if r, ok := cfg.renderer[id]; ok {
			return r, nil
		}
	}

	return nil, errors.New("renderer not found: " + id)
}

type rendererConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`
}

func (cfg *Config) registerRenderers(f *configFile) error {
	var configs map[string]rendererConfig

	if err := f.Renderers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Renderers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		renderer, err := createRenderer(config)

		if err != nil {
			return err
		}

		if _, ok := renderer.(limiter.Renderer); !ok {
			renderer = limiter.NewRenderer(createLimiter(config.Limit), renderer)
		}

		if _, ok := renderer.(otel.Renderer); !ok {
			renderer = otel.NewRenderer(config.Type, config.Model, renderer)
		}

		cfg.RegisterRenderer(id, renderer)
	}

	return nil
}

func createRenderer(cfg rendererConfig) (provider.Renderer, error) {
	switch strings.ToLower(cfg.Type) {
	case "replicate":
		return replicateRenderer(cfg)

	case "openai":
		return openaiRenderer(cfg)

	case "overlay":
		return overlay.NewRenderer()

	default:
		return nil, errors.New("invalid renderer type: " + cfg.Type)
	}
}

func replicateRenderer(cfg rendererConfig) (provider.Renderer, error) {
	var options []replicate.Option

	if cfg.Token != "" {
		options = append(options, replicate.WithToken(cfg.Token))
	}

	if slices.Contains(controlnet.SupportedModels, cfg.Model) {
		return controlnet.NewRenderer(cfg.Model, options...)
	}

	return nil, errors.New("unsupported replicate model: " + cfg.Model)
}

func openaiRenderer(cfg rendererConfig) (provider.Renderer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	return openai.NewRenderer(cfg.URL, cfg.Model, options...)
}
