// Package recognize wraps the external OCR service that turns trade-dialog
// screenshots into raw text. Accuracy is the service's problem; this package
// only carries its contract.
package recognize

import "context"

// Recognizer is the external recognition collaborator: image -> raw text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// Result mirrors the recognition service response. Data carries whatever
// structured fields the service already guessed; it is the best-effort
// fallback when no rule catalog is available.
type Result struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data"`
	RawText string            `json:"raw_text"`
	Message string            `json:"message,omitempty"`
}
