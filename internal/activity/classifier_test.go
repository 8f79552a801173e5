package activity

import (
	"testing"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	thresholds := Thresholds{ActiveWindow: 10 * time.Minute, RecentWindow: time.Hour}

	cases := []struct {
		name         string
		age          time.Duration
		connectivity string
		want         string
	}{
		{"fresh and online", 5 * time.Minute, models.ConnectivityOnline, models.ActivityActive},
		{"exactly at active window", 10 * time.Minute, models.ConnectivityOnline, models.ActivityActive},
		{"fresh but offline", 5 * time.Minute, models.ConnectivityOffline, models.ActivityRecentlyActive},
		{"just past active window", 10*time.Minute + time.Second, models.ConnectivityOnline, models.ActivityRecentlyActive},
		{"exactly at recent window", time.Hour, models.ConnectivityOffline, models.ActivityRecentlyActive},
		{"past recent window", time.Hour + time.Second, models.ConnectivityOnline, models.ActivityOffline},
		{"days old", 48 * time.Hour, models.ConnectivityOffline, models.ActivityOffline},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(now.Add(-tc.age), tc.connectivity, now, thresholds)
			if got != tc.want {
				t.Errorf("Classify(age=%v, %s) = %s, want %s", tc.age, tc.connectivity, got, tc.want)
			}
		})
	}
}

func TestClassifyNeverSeen(t *testing.T) {
	got := Classify(time.Time{}, models.ConnectivityOnline, time.Now(), Thresholds{})
	if got != models.ActivityOffline {
		t.Errorf("Classify(zero time) = %s, want offline", got)
	}
}

func TestThresholdsAreTunable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tight := Thresholds{ActiveWindow: time.Minute, RecentWindow: 2 * time.Minute}

	got := Classify(now.Add(-90*time.Second), models.ConnectivityOnline, now, tight)
	if got != models.ActivityRecentlyActive {
		t.Errorf("Classify with tight thresholds = %s, want recently_active", got)
	}
}
