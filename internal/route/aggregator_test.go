package route

import (
	"math"
	"testing"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// degrees of latitude spanning about 100 meters
const lat100m = 100.0 / 111194.93

func sample(lat, lng float64, at time.Time) models.PositionSample {
	return models.PositionSample{SubjectID: "s1", Latitude: lat, Longitude: lng, RecordedAt: at}
}

func TestDegenerateInputs(t *testing.T) {
	from := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	empty := Aggregate("s1", from, to, nil, Options{})
	if empty.SampleCount != 0 || empty.TotalDistanceM != 0 || empty.AverageSpeedKmh != 0 || len(empty.Segments) != 0 {
		t.Errorf("empty input stats = %+v, want all zero", empty)
	}

	single := Aggregate("s1", from, to, []models.PositionSample{sample(0, 0, from)}, Options{})
	if single.SampleCount != 1 || single.TotalDistanceM != 0 || len(single.Segments) != 0 {
		t.Errorf("single input stats = %+v, want zeros with sample_count 1", single)
	}
}

func TestClosedSquarePerimeter(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(0, 0, base),
		sample(lat100m, 0, base.Add(100*time.Second)),
		sample(lat100m, lat100m, base.Add(200*time.Second)),
		sample(0, lat100m, base.Add(300*time.Second)),
		sample(0, 0, base.Add(400*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})

	if math.Abs(stats.TotalDistanceM-400) > 1 {
		t.Errorf("total distance = %f, want about 400", stats.TotalDistanceM)
	}
	if stats.TotalDurationS != 400 {
		t.Errorf("total duration = %f, want 400", stats.TotalDurationS)
	}
	wantSpeed := stats.TotalDistanceM / stats.TotalDurationS * 3.6
	if math.Abs(stats.AverageSpeedKmh-wantSpeed) > 1e-9 {
		t.Errorf("average speed = %f, want %f", stats.AverageSpeedKmh, wantSpeed)
	}
	if len(stats.Segments) != 1 || stats.Segments[0].SampleCount != 5 {
		t.Errorf("segments = %+v, want one 5-sample segment", stats.Segments)
	}
}

func TestGapWithinBreakKeepsOneSegment(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(0, 0, base),
		sample(0, 0, base.Add(1500*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})

	if len(stats.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(stats.Segments))
	}
	if stats.Segments[0].SampleCount != 2 {
		t.Errorf("segment sample_count = %d, want 2", stats.Segments[0].SampleCount)
	}
	// stationary pair past the stop-duration threshold registers one stop
	if stats.StopCount != 1 {
		t.Errorf("stop count = %d, want 1", stats.StopCount)
	}
}

func TestGapBeyondBreakDiscardsBothSegments(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(0, 0, base),
		sample(0, 0, base.Add(2000*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})

	if len(stats.Segments) != 0 {
		t.Errorf("segments = %+v, want none (both runs have a single sample)", stats.Segments)
	}
	if stats.TotalDistanceM != 0 || stats.TotalDurationS != 0 || stats.StopCount != 0 {
		t.Errorf("stats = %+v, want zero totals", stats)
	}
	if stats.SampleCount != 2 {
		t.Errorf("sample count = %d, want 2", stats.SampleCount)
	}
}

func TestRouteBreakSplitsSegments(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		// morning run
		sample(0, 0, base),
		sample(lat100m, 0, base.Add(60*time.Second)),
		// afternoon run, 2h later
		sample(10*lat100m, 0, base.Add(2*time.Hour)),
		sample(11*lat100m, 0, base.Add(2*time.Hour+60*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(3*time.Hour), samples, Options{})

	if len(stats.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(stats.Segments))
	}
	if math.Abs(stats.TotalDistanceM-200) > 1 {
		t.Errorf("total distance = %f, want about 200", stats.TotalDistanceM)
	}
	// only in-segment time counts, not the 2h break
	if stats.TotalDurationS != 120 {
		t.Errorf("total duration = %f, want 120", stats.TotalDurationS)
	}
}

func TestUnsortedInputHandled(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(2*lat100m, 0, base.Add(200*time.Second)),
		sample(0, 0, base),
		sample(lat100m, 0, base.Add(100*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})

	// walked 0 -> 100m -> 200m in order, so 200m total, not 300m
	if math.Abs(stats.TotalDistanceM-200) > 1 {
		t.Errorf("total distance = %f, want about 200", stats.TotalDistanceM)
	}
}

func TestMaxLegSpeed(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(0, 0, base),
		sample(lat100m, 0, base.Add(100*time.Second)),   // 1 m/s
		sample(3*lat100m, 0, base.Add(150*time.Second)), // 4 m/s
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})

	want := 4.0 * 3.6
	if math.Abs(stats.MaxLegSpeedKmh-want) > 0.1 {
		t.Errorf("max leg speed = %f, want about %f", stats.MaxLegSpeedKmh, want)
	}
}

func TestShortMoveWithinStopWindowNotAStop(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []models.PositionSample{
		sample(0, 0, base),
		// 1m drift over 60s: short distance but also short gap
		sample(1.0/111194.93, 0, base.Add(60*time.Second)),
	}

	stats := Aggregate("s1", base, base.Add(time.Hour), samples, Options{})
	if stats.StopCount != 0 {
		t.Errorf("stop count = %d, want 0", stats.StopCount)
	}
}
