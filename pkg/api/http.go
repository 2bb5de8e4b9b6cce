package api

// ErrorResponse is the JSON error body returned by the HTTP API
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HealthResponse reports process liveness and orchestrator readiness
type HealthResponse struct {
	Status      string `json:"status"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Initialized bool   `json:"initialized"`
}
