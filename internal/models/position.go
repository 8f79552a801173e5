package models

import "time"

// Connectivity values recorded on every sample
const (
	ConnectivityOnline  = "online"
	ConnectivityOffline = "offline"
)

// PositionSample represents one accepted position fix for a subject.
// Samples are immutable once persisted; recorded_at is the ordering key and
// the autoincrement id breaks ties in insertion order.
type PositionSample struct {
	ID           int64     `json:"id" db:"id"`
	SubjectID    string    `json:"subjectId" db:"subject_id"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	AccuracyM    *float64  `json:"accuracyM,omitempty" db:"accuracy_m"`
	AltitudeM    *float64  `json:"altitudeM,omitempty" db:"altitude_m"`
	SpeedMps     *float64  `json:"speedMps,omitempty" db:"speed_mps"`
	HeadingDeg   *float64  `json:"headingDeg,omitempty" db:"heading_deg"`
	BatteryPct   *float64  `json:"batteryPct,omitempty" db:"battery_pct"`
	Connectivity string    `json:"connectivity" db:"connectivity"`
	TaskID       *string   `json:"taskId,omitempty" db:"task_id"`
	RecordedAt   time.Time `json:"recordedAt" db:"recorded_at"`
}

// Fix is a raw position delivered by the positioning source, before
// movement filtering and enrichment.
type Fix struct {
	Latitude   float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64   `json:"longitude" binding:"min=-180,max=180"`
	AccuracyM  *float64  `json:"accuracyM,omitempty"`
	AltitudeM  *float64  `json:"altitudeM,omitempty"`
	SpeedMps   *float64  `json:"speedMps,omitempty"`
	HeadingDeg *float64  `json:"headingDeg,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// PositionFilter represents a time-window query for one subject's history
type PositionFilter struct {
	From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
