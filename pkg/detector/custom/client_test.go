package custom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/provider"
)

func testFile() *provider.File {
	return &provider.File{
		Name:        "plan.png",
		Content:     []byte("png-bytes"),
		ContentType: "image/png",
	}
}

func TestDetect(t *testing.T) {
	var gotConf, gotMode, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("path = %q", r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}

		gotConf = r.FormValue("conf")
		gotMode = r.FormValue("mode")
		gotAuth = r.Header.Get("Authorization")

		file, _, err := r.FormFile("image")

		if err != nil {
			t.Fatal(err)
		}

		file.Close()

		json.NewEncoder(w).Encode(map[string]any{
			"mode": "detect",

			"names": map[string]string{
				"0": "couch",
				"1": "person",
			},

			"detections": []map[string]any{
				{"class": 0, "confidence": 0.91, "box": []float64{10, 20, 110, 80}},
				{"class": 1, "confidence": 0.88, "box": []float64{5, 5, 30, 60}},
			},
		})
	}))

	defer server.Close()

	client, err := New(server.URL, WithToken("secret"))

	if err != nil {
		t.Fatal(err)
	}

	confidence := 0.25

	items, err := client.Detect(context.Background(), testFile(), &detector.DetectOptions{
		Confidence: &confidence,
	})

	if err != nil {
		t.Fatal(err)
	}

	if gotConf != "0.25" {
		t.Errorf("conf = %q", gotConf)
	}

	if gotMode != "detect" {
		t.Errorf("mode = %q", gotMode)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}

	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 (person filtered)", len(items))
	}

	if items[0].Type != "sofa" {
		t.Errorf("type = %q, want sofa", items[0].Type)
	}
}

func TestDetectOriented(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)

		if mode := r.FormValue("mode"); mode != "obb" {
			t.Errorf("mode = %q, want obb", mode)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"mode": "obb",

			"names": map[string]string{"0": "bed"},

			"detections": []map[string]any{
				{
					"class":      0,
					"confidence": 0.8,
					"box":        []float64{0, 0, 0, 0},
					"polygon":    []float64{50, 10, 90, 40, 60, 80, 20, 50},
				},
			},
		})
	}))

	defer server.Close()

	client, _ := New(server.URL)

	items, err := client.Detect(context.Background(), testFile(), &detector.DetectOptions{Oriented: true})

	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]

	if item.X1 != 20 || item.Y1 != 10 || item.X2 != 90 || item.Y2 != 80 {
		t.Errorf("envelope = %+v", item)
	}
}

func TestDetectServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))

	defer server.Close()

	client, _ := New(server.URL)

	_, err := client.Detect(context.Background(), testFile(), nil)

	if err == nil || err.Error() != "model not loaded" {
		t.Errorf("err = %v", err)
	}
}
