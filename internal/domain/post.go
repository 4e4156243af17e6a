package domain

import (
	"io"
	"time"
)

type Post struct {
	Id            PostId
	Creator       User
	MediaPath     string // relative to the media root, under uploads/
	MediaType     MediaType
	ThumbnailPath string // empty until derivation succeeds, may stay empty
	Description   string
	CreatedAt     time.Time

	LikeCount    int64
	CommentCount int64
	Comments     []Comment
}

// PendingUpload is a validated upload that has not been persisted yet.
// Data is the multipart file stream; the caller owns closing it.
type PendingUpload struct {
	Filename  string
	Extension string // lowercased, includes the dot
	SizeBytes int64
	MediaType MediaType
	Data      io.ReadSeeker
}

type Comment struct {
	Id        CommentId
	User      User
	PostId    PostId
	Content   string
	CreatedAt time.Time
}
