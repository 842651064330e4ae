package search

import (
	"errors"

	"animeid/internal/services"
	"animeid/internal/tracemoe"
	"animeid/internal/upload"
)

// Messages shown to the user for each outcome class.
const (
	NoMatchMessage  = "No matches found for this image"
	NetworkMessage  = "Network error. Please check your connection."
	GenericMessage  = "Failed to process image."
	TooLargeMessage = "File size exceeds the upload limit"
	InvalidMessage  = "Please select an image file."
	ConfigMessage   = "Search is not configured correctly."
)

// UserMessage maps a search or validation error to display text. Upstream
// messages are passed through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rejection *upload.Rejection
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	var upstream *tracemoe.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Message != "" {
			return upstream.Message
		}
		return GenericMessage
	}

	switch services.Kind(err) {
	case services.ErrValidation:
		if errors.Is(err, upload.ErrTooLarge) {
			return TooLargeMessage
		}
		return InvalidMessage
	case services.ErrTransport:
		return NetworkMessage
	case services.ErrConfiguration:
		return ConfigMessage
	default:
		return GenericMessage
	}
}
