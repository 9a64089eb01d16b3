// Package models contains data types and constants for the browse agent.
package models

// Endpoints for the Gemini Developer API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta"
)

// DefaultModel is the model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// Backend names accepted in configuration
const (
	BackendGenAI = "genai"
	BackendREST  = "rest"
)

// URLPlaceholder is embedded in the prompt when no context URL was given
const URLPlaceholder = "Not provided"

// AvailableModels returns model names known to support search grounding
func AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
		"gemini-2.5-pro",
	}
}

// AvailableBackends returns the transport names that can be configured
func AvailableBackends() []string {
	return []string{BackendGenAI, BackendREST}
}

// IsKnownBackend reports whether name is a supported backend
func IsKnownBackend(name string) bool {
	for _, b := range AvailableBackends() {
		if b == name {
			return true
		}
	}
	return false
}

// GenerateEndpoint returns the REST generateContent URL for model
func GenerateEndpoint(base, model string) string {
	if base == "" {
		base = EndpointBase
	}
	return base + "/models/" + model + ":generateContent"
}

// DefaultHeaders returns the default headers for REST requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "browseagent/" + Version,
	}
}

// Version is the application version (set at build time)
var Version = "0.1.0"
