package provider

import (
	"context"
)

type Renderer interface {
	Render(ctx context.Context, input string, options *RenderOptions) (*Rendering, error)
}

type RenderOptions struct {
	// Images carries control inputs, e.g. the depth map conditioning the
	// generation.
	Images []File

	Steps    *int
	Guidance *float64
	Size     *int
}

type Rendering struct {
	ID    string
	Model string

	Content     []byte
	ContentType string
}
