package domain

import "time"

type User struct {
	Id                int64
	Name              string
	Email             string
	PassHash          string
	Staff             bool
	Active            bool
	OnboardingPending bool
	CreatedAt         time.Time
}

// ProfileStats is the aggregate shown on a profile page.
type ProfileStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	Posts       int64 `json:"posts"`
	IsSelf      bool  `json:"is_self"`
	IsFollowing bool  `json:"is_following"`
}
