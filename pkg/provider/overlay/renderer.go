package overlay

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/adrianliechti/furnish/pkg/provider"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var _ provider.Renderer = (*Renderer)(nil)

// Renderer is the graphical fallback when no diffusion backend is available:
// it returns the control image with the prompt drawn into a caption bar, so
// the demo flow stays usable end to end.
type Renderer struct {
}

func NewRenderer() (*Renderer, error) {
	return &Renderer{}, nil
}

func (r *Renderer) Render(ctx context.Context, prompt string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	if len(options.Images) == 0 {
		return nil, errors.New("image input required")
	}

	src, _, err := image.Decode(bytes.NewReader(options.Images[0].Content))

	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()

	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, src, bounds.Min, draw.Src)

	barHeight := bounds.Dy() / 10

	if barHeight < 32 {
		barHeight = 32
	}

	bar := image.Rect(bounds.Min.X, bounds.Max.Y-barHeight, bounds.Max.X, bounds.Max.Y)
	draw.Draw(img, bar, image.NewUniform(color.NRGBA{0, 0, 0, 140}), image.Point{}, draw.Over)

	face := basicfont.Face7x13

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 235}),
		Face: face,

		Dot: fixed.P(bounds.Min.X+12, bounds.Max.Y-barHeight/2+face.Height/2),
	}

	drawer.DrawString(prompt)

	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: "overlay",

		Content:     buf.Bytes(),
		ContentType: "image/png",
	}, nil
}
