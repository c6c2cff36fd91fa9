package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/go-playground/validator/v10"
)

// Error messages returned in the "error" field.
const (
	msgInvalidJSON   = "Invalid JSON format."
	msgInvalidFormat = `Invalid request format. Expected a list of tasks or an object with "tasks" key.`
	msgNoTasks       = "No tasks provided."
	msgTooLarge      = "Too many tasks in one request."
	msgAnalyzeFailed = "An error occurred while analyzing tasks."
	msgSuggestFailed = "An error occurred while generating suggestions."
	msgCyclesFailed  = "An error occurred while checking dependencies."
	msgUnavailable   = "The ranking engine is temporarily unavailable."
)

// envelopeParams are the validated scalar fields of a request envelope.
type envelopeParams struct {
	Strategy string `validate:"omitempty,max=64"`
	Count    int    `validate:"min=0,max=100"`
}

// TaskHandler serves the task ranking endpoints.
type TaskHandler struct {
	analyzer     *application.Analyzer
	maxBodyBytes int64
	validate     *validator.Validate
	logger       *slog.Logger
}

// NewTaskHandler creates a handler; maxBodyBytes <= 0 means unlimited.
func NewTaskHandler(analyzer *application.Analyzer, maxBodyBytes int64, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		analyzer:     analyzer,
		maxBodyBytes: maxBodyBytes,
		validate:     validator.New(),
		logger:       logger,
	}
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*application.AnalysisResult
}

type suggestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*application.SuggestionResult
}

// Analyze handles POST /api/v1/tasks/analyze.
func (h *TaskHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.readBatch(w, r)
	if !ok {
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), application.AnalyzeRequest{
		Tasks:    batch.Tasks,
		Strategy: batch.Strategy,
	})
	if err != nil {
		h.writeServiceError(w, r, err, msgAnalyzeFailed)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, AnalysisResult: result})
}

// Suggest handles POST /api/v1/tasks/suggest.
func (h *TaskHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.readBatch(w, r)
	if !ok {
		return
	}
	h.suggest(w, r, batch)
}

// SuggestDemo handles GET /api/v1/tasks/suggest with the sample batch.
// An optional ?count= sets the number of suggestions.
func (h *TaskHandler) SuggestDemo(w http.ResponseWriter, r *http.Request) {
	batch := application.Batch{Tasks: h.analyzer.DemoTasks()}
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidFormat, "count must be an integer")
			return
		}
		batch.Count = count
	}
	if err := h.validateParams(batch); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidFormat, err.Error())
		return
	}
	h.suggest(w, r, batch)
}

func (h *TaskHandler) suggest(w http.ResponseWriter, r *http.Request, batch application.Batch) {
	result, err := h.analyzer.Suggest(r.Context(), application.SuggestRequest{
		Tasks: batch.Tasks,
		Count: batch.Count,
	})
	if err != nil {
		h.writeServiceError(w, r, err, msgSuggestFailed)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Success:          true,
		Message:          fmt.Sprintf("Here are your top %d tasks for today:", len(result.Suggestions)),
		SuggestionResult: result,
	})
}

// Cycles handles POST /api/v1/tasks/cycles.
func (h *TaskHandler) Cycles(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.readBatch(w, r)
	if !ok {
		return
	}

	warnings, err := h.analyzer.DetectCycles(r.Context(), batch.Tasks)
	if err != nil {
		h.writeServiceError(w, r, err, msgCyclesFailed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"warnings": warnings,
	})
}

// Strategies handles GET /api/v1/strategies.
func (h *TaskHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"strategies": h.analyzer.Strategies(),
	})
}

// readBatch decodes and validates the body, writing a 4xx response and
// reporting false on failure.
func (h *TaskHandler) readBatch(w http.ResponseWriter, r *http.Request) (application.Batch, bool) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, err.Error())
			return application.Batch{}, false
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON, "Please check your JSON syntax and try again.")
		return application.Batch{}, false
	}

	batch, err := application.DecodeBatch(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidFormat, err.Error())
		return application.Batch{}, false
	}
	if err := h.validateParams(batch); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidFormat, err.Error())
		return application.Batch{}, false
	}
	return batch, true
}

func (h *TaskHandler) validateParams(batch application.Batch) error {
	return h.validate.Struct(envelopeParams{Strategy: batch.Strategy, Count: batch.Count})
}

func (h *TaskHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrNoTasks):
		writeError(w, http.StatusBadRequest, msgNoTasks, "Please provide at least one task.")
	case errors.Is(err, application.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge, err.Error())
	case errors.Is(err, application.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, msgInvalidFormat, err.Error())
	case sdk.IsCircuitOpen(err):
		h.logger.WarnContext(r.Context(), "engine circuit open", observability.ErrorKey, err)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable, "Please retry shortly.")
	default:
		h.logger.ErrorContext(r.Context(), "request failed", observability.ErrorKey, err)
		writeError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
