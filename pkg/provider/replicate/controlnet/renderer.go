package controlnet

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/provider/replicate"
	"github.com/google/uuid"
)

// Renderer runs a depth-conditioned image generation on Replicate. The
// prompt drives the content, the depth map in RenderOptions.Images drives
// the geometry.
type Renderer struct {
	*replicate.Client

	model string
}

const (
	ControlNetDepth string = "jagilley/controlnet-depth2img"

	FluxDepthDev string = "black-forest-labs/flux-depth-dev"
	FluxDepthPro string = "black-forest-labs/flux-depth-pro"
)

var SupportedModels = []string{
	ControlNetDepth,

	FluxDepthDev,
	FluxDepthPro,
}

func NewRenderer(model string, options ...replicate.Option) (*Renderer, error) {
	if !slices.Contains(SupportedModels, model) {
		return nil, errors.New("unsupported model")
	}

	client, err := replicate.New(model, options...)

	if err != nil {
		return nil, err
	}

	return &Renderer{
		Client: client,

		model: model,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, prompt string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	if len(options.Images) == 0 {
		return nil, errors.New("depth image required")
	}

	if len(options.Images) > 1 {
		return nil, errors.New("only one depth image is supported")
	}

	file, err := r.UploadFile(ctx, options.Images[0])

	if err != nil {
		return nil, err
	}

	fileID := file.ID
	fileURL := file.URLs["get"]

	defer func() {
		r.DeleteFile(context.Background(), fileID)
	}()

	input, err := r.convertInput(prompt, fileURL, options)

	if err != nil {
		return nil, err
	}

	resp, err := r.Run(ctx, input)

	if err != nil {
		return nil, err
	}

	return r.convertImage(resp)
}

func (r *Renderer) convertInput(prompt, imageURL string, options *provider.RenderOptions) (replicate.PredictionInput, error) {
	switch r.model {
	case ControlNetDepth:
		// https://replicate.com/jagilley/controlnet-depth2img/api/schema#input-schema
		input := map[string]any{
			"prompt": prompt,

			"image": imageURL,
		}

		if options.Steps != nil {
			input["ddim_steps"] = *options.Steps
		}

		if options.Guidance != nil {
			input["scale"] = *options.Guidance
		}

		if options.Size != nil {
			input["image_resolution"] = *options.Size
		}

		return input, nil

	case FluxDepthDev, FluxDepthPro:
		// https://replicate.com/black-forest-labs/flux-depth-dev/api/schema#input-schema
		// https://replicate.com/black-forest-labs/flux-depth-pro/api/schema#input-schema
		input := map[string]any{
			"prompt": prompt,

			"control_image": imageURL,
			"output_format": "png",
		}

		if options.Steps != nil {
			input["num_inference_steps"] = *options.Steps
		}

		if options.Guidance != nil {
			input["guidance"] = *options.Guidance
		}

		return input, nil
	}

	return nil, errors.New("unsupported model")
}

func (r *Renderer) convertImage(output replicate.PredictionOutput) (*provider.Rendering, error) {
	file, ok := output.(*replicate.FileOutput)

	if !ok {
		return nil, errors.New("unsupported output")
	}

	data, err := io.ReadAll(file)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.New().String(),
		Model: r.model,

		Content:     data,
		ContentType: "image/png",
	}, nil
}
