// Package service adapts the OpenAI image API to the pipeline's
// ImageGenerationService interface.
package service

import "strings"

// IsLocalEndpoint reports whether endpoint points at a local or LAN host.
// Local inference servers speak the chat API but not the image API, so the
// adapter refuses them up front instead of failing on the first call.
func IsLocalEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	lower := strings.ToLower(endpoint)
	return strings.Contains(lower, "localhost") ||
		strings.Contains(lower, "127.0.0.1") ||
		strings.Contains(lower, "0.0.0.0") ||
		strings.Contains(lower, "192.168.") ||
		strings.Contains(lower, "10.0.")
}
