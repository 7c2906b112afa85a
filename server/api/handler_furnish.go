package api

import (
	"net/http"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/store"
)

type furnishResponse struct {
	Plan *floorplan.Document `json:"plan"`

	Diagnostics *floorplan.Diagnostics `json:"diagnostics"`

	DetectorMode string `json:"detector_mode,omitempty"`
}

func (h *Handler) handleFurnish(w http.ResponseWriter, r *http.Request) {
	d, err := h.Detector(valueModel(r))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
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

	baseline := valueBaseline(r)

	options := &detector.DetectOptions{
		Baseline: baseline,
	}

	items, err := d.Detect(r.Context(), image, options)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	width, height := imageSize(image)

	doc, diagnostics := floorplan.Merge([]byte(baseline), items, width, height)

	writeJson(w, furnishResponse{
		Plan: doc,

		Diagnostics: diagnostics,
	})
}

func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	d, err := h.Detector(valueModel(r))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
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

	confidence := valueFloat(r, "conf", 0.15)
	iou := valueFloat(r, "iou", 0.50)

	mode := r.FormValue("mode")

	if mode != "obb" {
		mode = "detect"
	}

	baseline := valueBaseline(r)

	options := &detector.DetectOptions{
		Baseline: baseline,

		Confidence: &confidence,
		IoU:        &iou,

		Oriented: mode == "obb",
	}

	items, err := d.Detect(r.Context(), image, options)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	width, height := imageSize(image)

	doc, diagnostics := floorplan.Merge([]byte(baseline), items, width, height)

	writeJson(w, furnishResponse{
		Plan: doc,

		Diagnostics: diagnostics,

		DetectorMode: mode,
	})
}
