package api

import (
	"bytes"
	"errors"
	"image"
	"io"
	"net/http"
	"slices"
	"strconv"

	_ "image/jpeg"
	_ "image/png"

	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/store"
)

const maxImageSize = 4 << 20

var imageTypes = []string{"image/png", "image/jpeg"}

func valueModel(r *http.Request) string {
	if val := r.FormValue("model"); val != "" {
		return val
	}

	if val := r.FormValue("detector"); val != "" {
		return val
	}

	return ""
}

func valueFloat(r *http.Request, name string, fallback float64) float64 {
	val := r.FormValue(name)

	if val == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(val, 64)

	if err != nil {
		return fallback
	}

	return f
}

func valueInt(r *http.Request, name string, fallback int) int {
	val := r.FormValue(name)

	if val == "" {
		return fallback
	}

	i, err := strconv.Atoi(val)

	if err != nil {
		return fallback
	}

	return i
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func valueBaseline(r *http.Request) string {
	if val := r.FormValue("plan"); val != "" {
		return val
	}

	return r.FormValue("json")
}

func readImage(r *http.Request) (*provider.File, error) {
	file, header, err := r.FormFile("image")

	if err != nil {
		file, header, err = r.FormFile("depth")
	}

	if err != nil {
		return nil, errors.New("image file required")
	}

	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))

	if err != nil {
		return nil, err
	}

	if len(data) > maxImageSize {
		return nil, errors.New("image too large")
	}

	contentType := header.Header.Get("Content-Type")

	if !slices.Contains(imageTypes, contentType) {
		return nil, errors.New("unsupported image type: " + contentType)
	}

	return &provider.File{
		Name: header.Filename,

		Content:     data,
		ContentType: contentType,
	}, nil
}

// imageSize reads the pixel dimensions without decoding the full image. Used
// as the fallback when the baseline plan carries no dimensions.
func imageSize(file *provider.File) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Content))

	if err != nil {
		return 0, 0
	}

	return cfg.Width, cfg.Height
}

// debit charges one token for the session user, if any. Unauthenticated API
// calls pass through unmetered.
func (h *Handler) debit(r *http.Request) error {
	if h.Store == nil {
		return nil
	}

	cookie, err := r.Cookie("session")

	if err != nil {
		return nil
	}

	session, err := h.Store.Session(r.Context(), cookie.Value)

	if err != nil {
		return nil
	}

	_, err = h.Store.DebitTokens(r.Context(), session.Username, 1)

	if errors.Is(err, store.ErrInsufficientTokens) {
		return err
	}

	return nil
}
