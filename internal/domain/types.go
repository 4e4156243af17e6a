package domain

type (
	Email    = string
	Password = string
	UserId   = int64

	PostId    = int64
	CommentId = int64
	ReportId  = int64
)

// MediaType discriminates the two upload classes a Post can carry.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)
