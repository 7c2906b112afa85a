package openai

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/adrianliechti/furnish/pkg/provider"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*Config
	images openai.ImageService
}

func NewRenderer(url, model string, options ...Option) (*Renderer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Renderer{
		Config: cfg,
		images: openai.NewImageService(cfg.Options()...),
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	image, err := r.images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(r.model),
		Prompt: input,
	})

	if err != nil {
		return nil, convertError(err)
	}

	if len(image.Data) == 0 || image.Data[0].B64JSON == "" {
		return nil, errors.New("invalid image data")
	}

	data, err := base64.StdEncoding.DecodeString(image.Data[0].B64JSON)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,

		Content:     data,
		ContentType: "image/png",
	}, nil
}
