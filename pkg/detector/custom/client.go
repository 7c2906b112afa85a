package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"
)

var _ detector.Detector = (*Client)(nil)

// Client talks to a self-hosted predictor service that runs an object
// detection model over the plan image and returns raw boxes.
type Client struct {
	*Config
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("url required")
	}

	cfg := &Config{
		url: strings.TrimRight(url, "/"),

		client: http.DefaultClient,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Client{
		Config: cfg,
	}, nil
}

type detectResponse struct {
	Mode string `json:"mode"`

	Names map[string]string `json:"names"`

	Detections []struct {
		Class      int     `json:"class"`
		Confidence float64 `json:"confidence"`

		Box     []float64 `json:"box"`
		Polygon []float64 `json:"polygon"`
	} `json:"detections"`
}

func (c *Client) Detect(ctx context.Context, image *provider.File, options *detector.DetectOptions) ([]floorplan.Item, error) {
	if options == nil {
		options = new(detector.DetectOptions)
	}

	if image == nil {
		return nil, errors.New("image required")
	}

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	file, err := w.CreateFormFile("image", image.Name)

	if err != nil {
		return nil, err
	}

	if _, err := file.Write(image.Content); err != nil {
		return nil, err
	}

	if options.Confidence != nil {
		w.WriteField("conf", strconv.FormatFloat(*options.Confidence, 'f', -1, 64))
	}

	if options.IoU != nil {
		w.WriteField("iou", strconv.FormatFloat(*options.IoU, 'f', -1, 64))
	}

	mode := "detect"

	if options.Oriented {
		mode = "obb"
	}

	w.WriteField("mode", mode)

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/detect", &body)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result detectResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	names := make(map[int]string, len(result.Names))

	for key, name := range result.Names {
		class, err := strconv.Atoi(key)

		if err != nil {
			continue
		}

		names[class] = name
	}

	detections := make([]detector.Detection, 0, len(result.Detections))

	for _, d := range result.Detections {
		detection := detector.Detection{
			Class:      d.Class,
			Confidence: d.Confidence,

			Polygon: d.Polygon,
		}

		if len(d.Box) >= 4 {
			detection.Box = [4]float64{d.Box[0], d.Box[1], d.Box[2], d.Box[3]}
		}

		detections = append(detections, detection)
	}

	return detector.Items(detections, names), nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	text := strings.TrimSpace(string(data))

	if text == "" {
		text = resp.Status
	}

	return errors.New(text)
}
