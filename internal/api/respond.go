package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pulseboard/backend/internal/apperr"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Error   string      `json:"error,omitempty"` // development only
}

// Responder writes envelope responses. In development mode the underlying
// error detail of internal failures is attached to the body.
type Responder struct {
	dev bool
	log zerolog.Logger
}

func NewResponder(dev bool, log zerolog.Logger) *Responder {
	return &Responder{dev: dev, log: log}
}

// OK writes a success envelope with the given status and payload.
func (rs *Responder) OK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Err maps a service error onto the envelope and status taxonomy.
func (rs *Responder) Err(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	env := Envelope{Success: false, Message: ae.Message, Errors: ae.Fields}

	if ae.Code == apperr.CodeInternal {
		rs.log.Error().Err(err).Msg("internal error")
		env.Message = "Internal server error"
		if rs.dev {
			env.Error = err.Error()
		}
	}

	writeJSON(w, ae.HTTPStatus(), env)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
