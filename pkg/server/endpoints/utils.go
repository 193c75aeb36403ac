package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  model.FieldErrors `json:"fields,omitempty"`
}

func errorBody(code, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message}
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps store errors to 422, 404 and 500 responses.
func respondWithStoreError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusUnprocessableEntity, ErrorBody{
			Code:    "validation_error",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, errorBody("not_found", err.Error()))
	case errors.Is(err, store.ErrInvalidResource):
		respondWithError(w, http.StatusNotFound, errorBody("invalid_resource", err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusServiceUnavailable, errorBody("unavailable", err.Error()))
	default:
		logger.Error("records store failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

func views(records []model.Record) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		view, err := model.View(r)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func respondWithRecord(w http.ResponseWriter, logger *zap.Logger, code int, record model.Record) {
	var data map[string]any
	if record != nil {
		view, err := model.View(record)
		if err != nil {
			respondWithStoreError(w, logger, err)
			return
		}
		data = view
	}
	respondWithJSON(w, code, OneResponse{Data: data})
}

func respondWithRecords(w http.ResponseWriter, logger *zap.Logger, code int, records []model.Record) {
	data, err := views(records)
	if err != nil {
		respondWithStoreError(w, logger, err)
		return
	}
	respondWithJSON(w, code, ManyResponse{Data: data})
}

// respondWithList writes a page with its total, also exposed through the
// X-Total-Count and Content-Range headers.
func respondWithList(w http.ResponseWriter, logger *zap.Logger, resource model.Resource, p store.Pagination, result store.ListResult) {
	data, err := views(result.Data)
	if err != nil {
		respondWithStoreError(w, logger, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	w.Header().Set("Content-Range", contentRange(resource, p, len(data), result.Total))
	respondWithJSON(w, http.StatusOK, ListResponse{Data: data, Total: result.Total})
}

func contentRange(resource model.Resource, p store.Pagination, n, total int) string {
	if n == 0 {
		return fmt.Sprintf("%s */%d", resource, total)
	}
	start := 0
	if p.PerPage > 0 && p.Page > 1 {
		start = (p.Page - 1) * p.PerPage
	}
	return fmt.Sprintf("%s %d-%d/%d", resource, start, start+n-1, total)
}
