package vision

import (
	"context"
	"errors"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"
)

var _ detector.Detector = (*Client)(nil)

// Client detects furniture by asking a vision-capable completer to read the
// plan image and reply with a JSON furniture list.
type Client struct {
	completer provider.Completer
}

const furnitureTypes = "sofa, armchair, coffee table, tv stand, dining table, dining chair, " +
	"bed, nightstand, wardrobe/closet, dresser, desk, office chair, " +
	"bookshelf, kitchen counter, stove/cooktop, sink, fridge, oven, " +
	"island, bathtub, shower, toilet, bathroom sink/vanity, washing machine, dryer, " +
	"rug, side table, bench, shoe rack, radiator"

const roomTypes = "living, bedroom, kitchen, bathroom, corridor, storage, balcony, porch, " +
	"garage, office, great room, dining, master, unknown"

const systemPrompt = `You are an architectural assistant. You receive a floor-plan image and a plan JSON with structural elements (points, classes, Width, Height, averageDoor).

Infer likely furniture positions from the image and the given structure.

Reply with ONE raw JSON object containing a top-level "furniture" array. Each entry must have:
  - x1, y1, x2, y2 (integers, image pixel space, x1 < x2 and y1 < y2)
  - type (one of: ` + furnitureTypes + `)
  - room (one of: ` + roomTypes + `)
  - confidence (0..1 float)

All boxes must lie within [0, Width) x [0, Height). If a room is unclear, use "unknown". Prefer fewer, high-confidence items over dense guesses. No markdown fences, no explanations.`

func New(completer provider.Completer) (*Client, error) {
	if completer == nil {
		return nil, errors.New("completer required")
	}

	return &Client{
		completer: completer,
	}, nil
}

func (c *Client) Detect(ctx context.Context, image *provider.File, options *detector.DetectOptions) ([]floorplan.Item, error) {
	if options == nil {
		options = new(detector.DetectOptions)
	}

	if image == nil {
		return nil, errors.New("image required")
	}

	baseline := options.Baseline

	if baseline == "" {
		baseline = "{}"
	}

	messages := []provider.Message{
		provider.SystemMessage(systemPrompt),
		{
			Role: provider.MessageRoleUser,

			Content: []provider.Content{
				provider.TextContent("Plan data:\n" + baseline),
				provider.FileContent(image),
			},
		},
	}

	completion, err := c.completer.Complete(ctx, messages, &provider.CompleteOptions{
		Format: provider.CompletionFormatJSON,
	})

	if err != nil {
		return nil, err
	}

	reply, err := floorplan.ParseReply(completion.Message.Text())

	if err != nil {
		return nil, err
	}

	values, _ := reply["furniture"].([]any)

	items := make([]floorplan.Item, 0, len(values))

	for _, value := range values {
		entry, ok := value.(map[string]any)

		if !ok {
			continue
		}

		items = append(items, floorplan.ItemFrom(entry))
	}

	return items, nil
}
