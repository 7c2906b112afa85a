package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/detector/custom"
	"github.com/adrianliechti/furnish/pkg/detector/vision"
	"github.com/adrianliechti/furnish/pkg/limiter"
	"github.com/adrianliechti/furnish/pkg/otel"
)

func (cfg *Config) RegisterDetector(id string, p detector.Detector) {
	if cfg.detector == nil {
		cfg.detector = make(map[string]detector.Detector)
	}

	if _, ok := cfg.detector[""]; !ok {
		cfg.detector[""] = p
	}

	cfg.detector[id] = p
}

func (cfg *Config) Detector(id string) (detector.Detector, error) {
	if cfg.detector != nil {
		if d, ok := cfg.detector[id]; ok {
			return d, nil
		}
	}

	return nil, errors.New("detector not found: " + id)
}

type detectorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// Completer references a registered completer by id. Used by the vision
	// detector.
	Completer string `yaml:"completer"`

	Limit *int `yaml:"limit"`
}

// registerDetectors runs after registerCompleters so vision detectors can
// reference completers by id.
func (cfg *Config) registerDetectors(f *configFile) error {
	var configs map[string]detectorConfig

	if err := f.Detectors.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Detectors.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		d, err := cfg.createDetector(config)

		if err != nil {
			return err
		}

		if _, ok := d.(limiter.Detector); !ok {
			d = limiter.NewDetector(createLimiter(config.Limit), d)
		}

		if _, ok := d.(otel.Detector); !ok {
			d = otel.NewDetector(config.Type, id, d)
		}

		cfg.RegisterDetector(id, d)
	}

	return nil
}

func (cfg *Config) createDetector(c detectorConfig) (detector.Detector, error) {
	switch strings.ToLower(c.Type) {
	case "vision":
		return cfg.visionDetector(c)

	case "custom":
		return customDetector(c)

	default:
		return nil, errors.New("invalid detector type: " + c.Type)
	}
}

func (cfg *Config) visionDetector(c detectorConfig) (detector.Detector, error) {
	completer, err := cfg.Completer(c.Completer)

	if err != nil {
		return nil, err
	}

	return vision.New(completer)
}

func customDetector(c detectorConfig) (detector.Detector, error) {
	var options []custom.Option

	if c.Token != "" {
		options = append(options, custom.WithToken(c.Token))
	}

	return custom.New(c.URL, options...)
}
