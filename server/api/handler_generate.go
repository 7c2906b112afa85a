package api

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/furnish/pkg/provider"
	"github.com/adrianliechti/furnish/pkg/provider/overlay"
	"github.com/adrianliechti/furnish/pkg/store"
)

type generateResponse struct {
	Image string `json:"image"`

	Model string `json:"model,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	prompt := r.FormValue("prompt")

	if prompt == "" {
		writeError(w, http.StatusBadRequest, errors.New("prompt required"))
		return
	}

	image, err := readImage(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.debit(r); err != nil {
		writeError(w, http.StatusPaymentRequired, store.ErrInsufficientTokens)
		return
	}

	steps := clampInt(valueInt(r, "steps", 28), 1, 100)
	size := clampInt(valueInt(r, "size", 512), 128, 1024)

	guidance := valueFloat(r, "guidance", 7.5)

	if guidance < 0 {
		guidance = 0
	}

	options := &provider.RenderOptions{
		Images: []provider.File{*image},

		Steps:    &steps,
		Guidance: &guidance,
		Size:     &size,
	}

	rendering, err := h.render(r, prompt, options)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, generateResponse{
		Image: "data:" + rendering.ContentType + ";base64," + base64.StdEncoding.EncodeToString(rendering.Content),

		Model: rendering.Model,
	})
}

// render tries the requested renderer and falls back to the overlay renderer
// when none is configured or the backend fails. The overlay needs no
// configuration, so the fallback always exists.
func (h *Handler) render(r *http.Request, prompt string, options *provider.RenderOptions) (*provider.Rendering, error) {
	p, err := h.Renderer(valueModel(r))

	if err == nil {
		rendering, err := p.Render(r.Context(), prompt, options)

		if err == nil {
			return rendering, nil
		}

		slog.Warn("renderer failed, using overlay fallback", "error", err)
	}

	fallback, err := h.Renderer("overlay")

	if err != nil {
		fallback, err = overlay.NewRenderer()

		if err != nil {
			return nil, err
		}
	}

	return fallback.Render(r.Context(), prompt, options)
}
