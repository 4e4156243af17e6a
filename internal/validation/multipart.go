package validation

import (
	"fmt"
	"net/http"
)

// ValidateAndParseMultipart validates request size and parses the multipart form.
// MaxBytesReader is the security boundary: the server stops reading once the
// limit is exceeded, so a claimed 200TB upload costs at most maxSize bytes.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// The buffer (typically 1 MiB) covers form fields and multipart framing.
func CalculateMaxRequestSize(maxMediaSize int64, bufferSize int64) int64 {
	return maxMediaSize + bufferSize
}
