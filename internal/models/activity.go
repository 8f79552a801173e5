package models

import "time"

// Liveness states derived from last-update age and connectivity
const (
	ActivityActive         = "active"
	ActivityRecentlyActive = "recently_active"
	ActivityOffline        = "offline"
)

// ActivityReport is the liveness view of one subject
type ActivityReport struct {
	SubjectID    string     `json:"subjectId"`
	Status       string     `json:"status"`
	Connectivity string     `json:"connectivity,omitempty"`
	LastUpdateAt *time.Time `json:"lastUpdateAt,omitempty"`
}
