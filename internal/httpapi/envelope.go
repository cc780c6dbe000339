package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Every response, success or failure, uses the same envelope. List responses
// add a count and pagination block.
type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type listEnvelope struct {
	Status     int         `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Count      int         `json:"count"`
	Pagination pagination  `json:"pagination"`
}

type pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
	// Caps the computed OFFSET so absurd ?page= values cannot overflow into a
	// negative offset.
	maxPage = 1 << 20
)

func pageParams(r *http.Request) (page, pageSize, offset int) {
	page = 1
	pageSize = defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page > maxPage {
		page = maxPage
	}
	return page, pageSize, (page - 1) * pageSize
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, message string, data interface{}, count, page, pageSize int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(listEnvelope{
		Status:     http.StatusOK,
		Message:    message,
		Data:       data,
		Count:      count,
		Pagination: pagination{Page: page, PageSize: pageSize},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, message, nil)
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeEnvelope(w, http.StatusBadRequest, "validation failed", map[string]interface{}{"fields": fields})
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}
