package route

import (
	"sort"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/spatial"
)

// Options tunes route aggregation. Zero values fall back to the documented
// defaults.
type Options struct {
	StopDistanceM float64       // pair distance below this may count as a stop
	StopDuration  time.Duration // pair gap above this counts as a stop
	RouteBreak    time.Duration // pair gap above this splits the route
}

func (o Options) withDefaults() Options {
	if o.StopDistanceM <= 0 {
		o.StopDistanceM = 5
	}
	if o.StopDuration <= 0 {
		o.StopDuration = 5 * time.Minute
	}
	if o.RouteBreak <= 0 {
		o.RouteBreak = 30 * time.Minute
	}
	return o
}

// Aggregate derives movement statistics for one subject's samples within a
// window. Input order is not trusted: samples are stable-sorted by
// recorded_at first, so equal timestamps keep their stored insertion order.
// Zero- and one-sample inputs produce all-zero statistics, never an error.
func Aggregate(subjectID string, from, to time.Time, samples []models.PositionSample, opts Options) models.RouteStatistics {
	opts = opts.withDefaults()

	stats := models.RouteStatistics{
		SubjectID:   subjectID,
		From:        from,
		To:          to,
		SampleCount: len(samples),
		Segments:    []models.RouteSegment{},
	}
	if len(samples) < 2 {
		return stats
	}

	sorted := make([]models.PositionSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})

	for _, run := range splitOnGaps(sorted, opts.RouteBreak) {
		if len(run) < 2 {
			// nothing to measure in a single-sample segment
			continue
		}
		seg := buildSegment(subjectID, run, opts, &stats)
		stats.Segments = append(stats.Segments, seg)
		stats.TotalDistanceM += seg.DistanceM
		stats.TotalDurationS += seg.DurationS
	}

	if stats.TotalDurationS > 0 {
		stats.AverageSpeedKmh = stats.TotalDistanceM / stats.TotalDurationS * 3.6
	}
	return stats
}

// splitOnGaps partitions sorted samples wherever consecutive samples are
// further apart in time than the route-break threshold
func splitOnGaps(sorted []models.PositionSample, routeBreak time.Duration) [][]models.PositionSample {
	var runs [][]models.PositionSample
	start := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].RecordedAt.Sub(sorted[i-1].RecordedAt) > routeBreak {
			runs = append(runs, sorted[start:i])
			start = i
		}
	}
	runs = append(runs, sorted[start:])
	return runs
}

// buildSegment walks one run of samples, accumulating distance, counting
// stops, and updating the max leg speed on the shared statistics
func buildSegment(subjectID string, run []models.PositionSample, opts Options, stats *models.RouteStatistics) models.RouteSegment {
	seg := models.RouteSegment{
		SubjectID:   subjectID,
		StartAt:     run[0].RecordedAt,
		EndAt:       run[len(run)-1].RecordedAt,
		SampleCount: len(run),
	}
	seg.DurationS = seg.EndAt.Sub(seg.StartAt).Seconds()

	for i := 1; i < len(run); i++ {
		prev, cur := run[i-1], run[i]
		legDist := spatial.DistanceMeters(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		legGap := cur.RecordedAt.Sub(prev.RecordedAt)

		seg.DistanceM += legDist

		if legDist < opts.StopDistanceM && legGap > opts.StopDuration {
			stats.StopCount++
		}
		if legGap > 0 {
			legSpeed := legDist / legGap.Seconds() * 3.6
			if legSpeed > stats.MaxLegSpeedKmh {
				stats.MaxLegSpeedKmh = legSpeed
			}
		}
	}
	return seg
}
