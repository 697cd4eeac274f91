package admin

import (
	"net/http"
	"net/url"
	"strings"
)

// PanelURLBuilder provides a fluent interface for building admin panel URLs
type PanelURLBuilder struct {
	basePath string
	params   url.Values
}

// NewPanelURL creates a new URL builder for the given path segments,
// e.g. NewPanelURL("projects", projectID, "instances")
func NewPanelURL(segments ...string) *PanelURLBuilder {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return &PanelURLBuilder{
		basePath: "/admin/" + strings.Join(escaped, "/"),
		params:   make(url.Values),
	}
}

// PreserveFromRequest copies all user-facing parameters from the current request
// Skips internal parameters like flash messages that shouldn't be preserved
func (b *PanelURLBuilder) PreserveFromRequest(r *http.Request) *PanelURLBuilder {
	for k, v := range r.URL.Query() {
		if !isInternalParam(k) {
			b.params[k] = v
		}
	}
	return b
}

// WithFlash attaches a one-shot success message shown on the next page
func (b *PanelURLBuilder) WithFlash(message string) *PanelURLBuilder {
	if message != "" {
		b.params.Set("flash", message)
	}
	return b
}

// WithError attaches a one-shot error message shown on the next page
func (b *PanelURLBuilder) WithError(message string) *PanelURLBuilder {
	if message != "" {
		b.params.Set("error", message)
	}
	return b
}

// WithParam sets an arbitrary parameter
func (b *PanelURLBuilder) WithParam(key, value string) *PanelURLBuilder {
	if key != "" {
		b.params.Set(key, value)
	}
	return b
}

// RemoveParam removes a parameter
func (b *PanelURLBuilder) RemoveParam(key string) *PanelURLBuilder {
	b.params.Del(key)
	return b
}

// String builds and returns the final URL
func (b *PanelURLBuilder) String() string {
	if len(b.params) == 0 {
		return b.basePath
	}
	return b.basePath + "?" + b.params.Encode()
}

// isInternalParam checks if a parameter is internal and should not be preserved
// when building new URLs based on current request
func isInternalParam(key string) bool {
	internalParams := []string{
		"flash", // One-shot success messages
		"error", // One-shot error messages
	}

	for _, param := range internalParams {
		if strings.EqualFold(key, param) {
			return true
		}
	}
	return false
}
