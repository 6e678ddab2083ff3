// Package model holds the types shared between handlers and services.
package model

import (
	"encoding/json"
	"net/http"
)

// Envelope is the single response shape of the API.
//
// Exactly one of Data (success) or Error (failure) is written:
//
//	{"success":true,"status":200,"message":"...","data":{...}}
//	{"success":false,"status":422,"message":"...","error":{"offset":["..."]}}
//
// Error may hold a field map, a string, or nil (written as null).
type Envelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// SuccessEnvelope wraps data in a successful envelope.
func SuccessEnvelope(status int, message string, data any) Envelope {
	return Envelope{
		Success: true,
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// ErrorEnvelope builds a failed envelope. errDetail may be nil.
func ErrorEnvelope(status int, message string, errDetail any) Envelope {
	return Envelope{
		Success: false,
		Status:  status,
		Message: message,
		Error:   errDetail,
	}
}

type successBody struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

// MarshalJSON writes data on success and error (possibly null) on failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Success {
		return json.Marshal(successBody{
			Success: e.Success,
			Status:  e.Status,
			Message: e.Message,
			Data:    e.Data,
		})
	}

	return json.Marshal(errorBody{
		Success: e.Success,
		Status:  e.Status,
		Message: e.Message,
		Error:   e.Error,
	})
}

// TransportStatus is the HTTP status the envelope is written with.
//
// It mirrors Status. Codes a server cannot send (anything outside 200-599,
// e.g. an upstream 111) go out as 502 while the body keeps the real code.
// In legacy mode every envelope is written with 200.
func (e Envelope) TransportStatus(legacy bool) int {
	if legacy {
		return http.StatusOK
	}
	if e.Status < http.StatusOK || e.Status > 599 {
		return http.StatusBadGateway
	}
	return e.Status
}
