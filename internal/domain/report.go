package domain

import "time"

type ReportReason string

const (
	ReasonNudity   ReportReason = "Nudity"
	ReasonViolence ReportReason = "Violence"
	ReasonSpam     ReportReason = "Spam"
	ReasonOther    ReportReason = "Other"
)

// ValidReportReason reports whether r is one of the accepted reasons.
func ValidReportReason(r ReportReason) bool {
	switch r {
	case ReasonNudity, ReasonViolence, ReasonSpam, ReasonOther:
		return true
	}
	return false
}

// Report rows are append-only; the same user may report the same post twice.
type Report struct {
	Id        ReportId
	PostId    PostId
	Post      *Post // populated on dashboard reads
	Reporter  User
	Reason    ReportReason
	Details   string
	CreatedAt time.Time
}

// AdminAction is one audit-trail entry. Never mutated or deleted by app flow.
type AdminAction struct {
	Id        int64
	Admin     User
	Action    string
	CreatedAt time.Time
}
