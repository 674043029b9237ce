// Package httpapi exposes the catalog, synthesis and analytics operations as
// a thin JSON HTTP surface.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sensorcore/internal/blob"
	"sensorcore/internal/core"
	"sensorcore/pkg/domain"
)

// Listing bounds for the paginated endpoints.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
	defaultBestLimit = 10
	maxBestLimit     = 100
)

// Handler routes the sensorcore HTTP API. Blobs is optional; without it the
// archive endpoint responds 503.
type Handler struct {
	Service *core.Service
	Blobs   blob.Store
}

// NewHandler constructs the API handler.
func NewHandler(svc *core.Service, blobs blob.Store) *Handler {
	return &Handler{Service: svc, Blobs: blobs}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch path {
	case "/api/health":
		h.handleHealth(w, r)
	case "/api/analytes":
		h.handleAnalytes(w, r)
	case "/api/bio-recognition":
		h.handleBioRecognition(w, r)
	case "/api/immobilization":
		h.handleImmobilization(w, r)
	case "/api/memristive":
		h.handleMemristive(w, r)
	case "/api/combinations":
		h.handleCombinations(w, r)
	case "/api/combinations/synthesize":
		h.handleSynthesize(w, r)
	case "/api/combinations/archive":
		h.handleArchive(w, r)
	case "/api/analytics/statistics":
		h.handleStatistics(w, r)
	case "/api/analytics/best-combinations":
		h.handleBestCombinations(w, r)
	case "/api/analytics/comparative":
		h.handleComparative(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) handleAnalytes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, ok := parsePage(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analytes": h.Service.ListAnalytes(page)})
	case http.MethodPost:
		var analyte domain.Analyte
		if !decodeBody(w, r, &analyte) {
			return
		}
		created, err := h.Service.CreateAnalyte(r.Context(), analyte)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"analyte": created})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleBioRecognition(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, ok := parsePage(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bio_recognition_layers": h.Service.ListBioRecognitionLayers(page)})
	case http.MethodPost:
		var layer domain.BioRecognitionLayer
		if !decodeBody(w, r, &layer) {
			return
		}
		created, err := h.Service.CreateBioRecognitionLayer(r.Context(), layer)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"bio_recognition_layer": created})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleImmobilization(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, ok := parsePage(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"immobilization_layers": h.Service.ListImmobilizationLayers(page)})
	case http.MethodPost:
		var layer domain.ImmobilizationLayer
		if !decodeBody(w, r, &layer) {
			return
		}
		created, err := h.Service.CreateImmobilizationLayer(r.Context(), layer)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"immobilization_layer": created})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleMemristive(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, ok := parsePage(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"memristive_layers": h.Service.ListMemristiveLayers(page)})
	case http.MethodPost:
		var layer domain.MemristiveLayer
		if !decodeBody(w, r, &layer) {
			return
		}
		created, err := h.Service.CreateMemristiveLayer(r.Context(), layer)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"memristive_layer": created})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleCombinations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	page, ok := parsePage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"combinations": h.Service.ListCombinations(page),
		"total":        h.Service.CountCombinations(),
	})
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	budget := core.DefaultSynthesisBudget
	if raw := r.URL.Query().Get("max_combinations"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > core.MaxSynthesisBudget {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("max_combinations must be between 1 and %d", core.MaxSynthesisBudget))
			return
		}
		budget = parsed
	}
	result, err := h.Service.Synthesize(r.Context(), budget)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Blobs == nil {
		writeError(w, http.StatusServiceUnavailable, "blob storage not configured")
		return
	}
	result, err := h.Service.ArchiveCombinations(r.Context(), h.Blobs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"archive": result})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := h.Service.Statistics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleBestCombinations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := defaultBestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxBestLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxBestLimit))
			return
		}
		limit = parsed
	}
	best, err := h.Service.BestCombinations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"combinations": best})
}

func (h *Handler) handleComparative(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := h.Service.ComparativeAnalysis(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kinds": entries})
}

func parsePage(w http.ResponseWriter, r *http.Request) (core.Page, bool) {
	page := core.Page{Limit: defaultListLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
			return core.Page{}, false
		}
		page.Limit = parsed
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return core.Page{}, false
		}
		page.Offset = parsed
	}
	return page, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

func writeDomainError(w http.ResponseWriter, err error) {
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusUnprocessableEntity, validation.Error())
		return
	}
	var conflict domain.ConflictError
	if errors.As(err, &conflict) {
		writeError(w, http.StatusConflict, conflict.Error())
		return
	}
	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
