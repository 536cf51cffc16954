package chart

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/de-tools/purchase-atlas/pkg/adapters"
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/render"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/rs/zerolog"
)

// Service is the part of the pipeline the handler needs.
type Service interface {
	Generate(seed uint64) (domain.Dataset, error)
	Summaries(ds domain.Dataset) []domain.SegmentSummary
	RenderTo(w io.Writer, seed uint64) (*render.Result, error)
}

type Handler struct {
	svc         Service
	defaultSeed uint64
}

func NewHandler(svc Service, defaultSeed uint64) *Handler {
	return &Handler{svc: svc, defaultSeed: defaultSeed}
}

func (h *Handler) GetSegments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	seed, ok := h.seed(w, r)
	if !ok {
		return
	}

	ds, err := h.svc.Generate(seed)
	if err != nil {
		logger.Error().Err(err).Uint64("seed", seed).Msg("failed to generate dataset")
		http.Error(w, "failed to generate dataset", http.StatusInternalServerError)
		return
	}

	response := adapters.MapDatasetSummaryToApi(seed, len(ds), stats.AxisUpperBound(ds), h.svc.Summaries(ds))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode segment summaries")
	}
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	seed, ok := h.seed(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	res, err := h.svc.RenderTo(&buf, seed)
	if err != nil {
		logger.Error().Err(err).Uint64("seed", seed).Msg("failed to render chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to write chart")
		return
	}
	logger.Debug().Uint64("seed", seed).Float64("y_max", res.UpperBound).Msg("chart served")
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return h.defaultSeed, true
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid seed", http.StatusBadRequest)
		return 0, false
	}
	return seed, true
}
