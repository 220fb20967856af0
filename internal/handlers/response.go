package handlers

import (
	"encoding/json"
	"net/http"
	"taskHub/internal/logger"
)

// Envelope - общий формат ответа: code 0 и "ok" при успехе, HTTP статус при ошибке.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func responseWithJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithData(w http.ResponseWriter, status int, data any) {
	responseWithJSON(w, status, Envelope{Code: 0, Message: "ok", Data: data})
}

func responseOK(w http.ResponseWriter) {
	responseWithJSON(w, http.StatusOK, Envelope{Code: 0, Message: "ok"})
}

func responseWithError(w http.ResponseWriter, status int, message string) {
	responseWithJSON(w, status, Envelope{Code: status, Message: message})
}
