package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrianliechti/furnish/config"
	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/provider/overlay"
	"github.com/adrianliechti/furnish/pkg/store"
	"github.com/adrianliechti/furnish/pkg/store/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	items []floorplan.Item
	err   error

	options *detector.DetectOptions
}

func (d *stubDetector) Detect(ctx context.Context, image *provider.File, options *detector.DetectOptions) ([]floorplan.Item, error) {
	d.options = options

	return d.items, d.err
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	handler, err := New(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/health", handler.HandleHealth)
	r.Route("/v1", func(r chi.Router) {
		handler.Attach(r)
	})

	server := httptest.NewServer(r)

	t.Cleanup(server.Close)

	return server
}

func testServer(t *testing.T, d detector.Detector) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}

	if d != nil {
		cfg.RegisterDetector("stub", d)
	}

	fallback, err := overlay.NewRenderer()
	require.NoError(t, err)

	cfg.RegisterRenderer("overlay", fallback)

	return newTestServer(t, cfg)
}

func planImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 400, 300))

	var buf bytes.Buffer

	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func multipartBody(t *testing.T, image []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="plan.png"`)
	header.Set("Content-Type", "image/png")

	file, err := w.CreatePart(header)
	require.NoError(t, err)

	_, err = file.Write(image)
	require.NoError(t, err)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}

	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	server := testServer(t, &stubDetector{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFurnish(t *testing.T) {
	d := &stubDetector{
		items: []floorplan.Item{
			{X1: 10, Y1: 20, X2: 110, Y2: 80, Type: "sofa", Room: "living room", Confidence: 0.9},
			{X1: 50, Y1: 50, X2: 50, Y2: 90, Type: "chair", Confidence: 0.8},
		},
	}

	server := testServer(t, d)

	body, contentType := multipartBody(t, planImage(t), map[string]string{
		"plan": `{"Width": 400, "Height": 300, "project": "demo"}`,
	})

	resp, err := http.Post(server.URL+"/v1/furnish", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Plan        map[string]any        `json:"plan"`
		Diagnostics floorplan.Diagnostics `json:"diagnostics"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, floorplan.SchemaVersion, result.Plan["schema_version"])
	require.Equal(t, "demo", result.Plan["project"])

	furniture := result.Plan["furniture"].([]any)
	require.Len(t, furniture, 1)

	require.Equal(t, 2, result.Diagnostics.Received)
	require.Equal(t, 1, result.Diagnostics.Kept)
	require.Equal(t, 1, result.Diagnostics.Dropped)

	require.Equal(t, `{"Width": 400, "Height": 300, "project": "demo"}`, d.options.Baseline)
}

func TestFurnishMalformedBaseline(t *testing.T) {
	d := &stubDetector{}

	server := testServer(t, d)

	body, contentType := multipartBody(t, planImage(t), map[string]string{
		"plan": `{not json`,
	})

	resp, err := http.Post(server.URL+"/v1/furnish", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Plan        map[string]any        `json:"plan"`
		Diagnostics floorplan.Diagnostics `json:"diagnostics"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.True(t, result.Diagnostics.BaselineInvalid)

	// dimensions fall back to the uploaded image
	require.EqualValues(t, 400, result.Plan["Width"])
	require.EqualValues(t, 300, result.Plan["Height"])
}

func TestFurnishMissingImage(t *testing.T) {
	server := testServer(t, &stubDetector{})

	var body bytes.Buffer

	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("plan", "{}"))
	require.NoError(t, w.Close())

	resp, err := http.Post(server.URL+"/v1/furnish", w.FormDataContentType(), &body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFurnishTokenDebit(t *testing.T) {
	client, err := sqlite.New(filepath.Join(t.TempDir(), "furnish.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
	})

	ctx := context.Background()

	require.NoError(t, client.Seed(ctx, []store.Account{
		{Username: "demo", Password: "demo", Tokens: 1},
	}))

	session, err := client.CreateSession(ctx, "demo")
	require.NoError(t, err)

	cfg := &config.Config{
		Store: client,
	}

	cfg.RegisterDetector("stub", &stubDetector{})

	server := newTestServer(t, cfg)

	furnish := func() int {
		body, contentType := multipartBody(t, planImage(t), map[string]string{
			"plan": "{}",
		})

		req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/furnish", body)
		require.NoError(t, err)

		req.Header.Set("Content-Type", contentType)
		req.AddCookie(&http.Cookie{Name: "session", Value: session.ID})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		defer resp.Body.Close()

		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, furnish())
	require.Equal(t, http.StatusPaymentRequired, furnish())

	user, err := client.User(ctx, "demo")
	require.NoError(t, err)

	require.Equal(t, 0, user.Tokens)
}

func TestDetectOptions(t *testing.T) {
	d := &stubDetector{}

	server := testServer(t, d)

	body, contentType := multipartBody(t, planImage(t), map[string]string{
		"conf": "0.4",
		"iou":  "0.6",
		"mode": "obb",
	})

	resp, err := http.Post(server.URL+"/v1/furnish/detect", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, d.options.Confidence)
	require.InDelta(t, 0.4, *d.options.Confidence, 1e-9)

	require.NotNil(t, d.options.IoU)
	require.InDelta(t, 0.6, *d.options.IoU, 1e-9)

	require.True(t, d.options.Oriented)

	var result struct {
		DetectorMode string `json:"detector_mode"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, "obb", result.DetectorMode)
}

func TestDetectDefaults(t *testing.T) {
	d := &stubDetector{}

	server := testServer(t, d)

	body, contentType := multipartBody(t, planImage(t), nil)

	resp, err := http.Post(server.URL+"/v1/furnish/detect", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.InDelta(t, 0.15, *d.options.Confidence, 1e-9)
	require.InDelta(t, 0.50, *d.options.IoU, 1e-9)
	require.False(t, d.options.Oriented)
}

func TestGenerateOverlayFallback(t *testing.T) {
	server := testServer(t, &stubDetector{})

	body, contentType := multipartBody(t, planImage(t), map[string]string{
		"prompt": "a cozy living room",
	})

	resp, err := http.Post(server.URL+"/v1/generate", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Image string `json:"image"`
		Model string `json:"model"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.True(t, strings.HasPrefix(result.Image, "data:image/png;base64,"))
	require.Equal(t, "overlay", result.Model)
}

func TestGenerateWithoutRenderers(t *testing.T) {
	// no renderer configured at all, the overlay still answers
	server := newTestServer(t, &config.Config{})

	body, contentType := multipartBody(t, planImage(t), map[string]string{
		"prompt": "a cozy living room",
	})

	resp, err := http.Post(server.URL+"/v1/generate", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Model string `json:"model"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, "overlay", result.Model)
}

func TestGenerateRequiresPrompt(t *testing.T) {
	server := testServer(t, &stubDetector{})

	body, contentType := multipartBody(t, planImage(t), nil)

	resp, err := http.Post(server.URL+"/v1/generate", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
