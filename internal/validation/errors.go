package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// User-facing rejection messages, kept verbatim from the upload contract.
const (
	MsgUnsupportedType = "Unsupported file type. Please upload MP4, MOV, JPG, or PNG files only."
	MsgFileTooLarge    = "File size exceeds 50MB limit."
	MsgVideoTooLong    = "Video duration exceeds 1 minute limit."
)
