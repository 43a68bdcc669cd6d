package utils

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// ErrorBody is the failure payload: a human-readable detail, no machine codes.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondJSON(w, status, ErrorBody{Detail: detail})
}
