package ai

import "fmt"

// ConfigurationError reports that no completion provider is available.
// It is raised per request; the process keeps serving.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("completion provider not configured: %s", e.Reason)
}

// UpstreamError wraps any failure returned by the completion provider.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
