package handlers

import (
	"net/http"
)

const serviceName = "videogen-codegen"

// HealthResponse is the liveness payload. It does not touch the database or
// the model provider.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	History bool   `json:"history"`
}

// Health reports liveness and whether the artifact archive is configured.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, HealthResponse{Status: "ok", Service: serviceName, History: a.History != nil})
}
