package models

import "time"

// RouteSegment is a contiguous run of samples between two idle gaps that
// exceed the route-break threshold. Derived on demand, never persisted.
type RouteSegment struct {
	SubjectID   string    `json:"subjectId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	DistanceM   float64   `json:"distanceM"`
	DurationS   float64   `json:"durationS"`
	SampleCount int       `json:"sampleCount"`
}

// RouteStatistics summarizes a subject's movement within a window
type RouteStatistics struct {
	SubjectID       string         `json:"subjectId"`
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	TotalDistanceM  float64        `json:"totalDistanceM"`
	TotalDurationS  float64        `json:"totalDurationS"`
	AverageSpeedKmh float64        `json:"averageSpeedKmh"`
	MaxLegSpeedKmh  float64        `json:"maxLegSpeedKmh"`
	StopCount       int            `json:"stopCount"`
	SampleCount     int            `json:"sampleCount"`
	Segments        []RouteSegment `json:"segments"`
}
