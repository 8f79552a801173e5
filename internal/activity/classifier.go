package activity

import (
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// Thresholds are the liveness windows. They come from configuration so
// deployments can tune them; zero values fall back to the defaults.
type Thresholds struct {
	ActiveWindow time.Duration
	RecentWindow time.Duration
}

func (t Thresholds) withDefaults() Thresholds {
	if t.ActiveWindow <= 0 {
		t.ActiveWindow = 10 * time.Minute
	}
	if t.RecentWindow <= 0 {
		t.RecentWindow = time.Hour
	}
	return t
}

// Classify derives a subject's liveness state from the age of its last
// update and its last reported connectivity:
//
//	active          age <= active window AND online
//	recently_active age <= recent window
//	offline         otherwise
func Classify(lastUpdate time.Time, connectivity string, now time.Time, t Thresholds) string {
	t = t.withDefaults()

	if lastUpdate.IsZero() {
		return models.ActivityOffline
	}

	age := now.Sub(lastUpdate)
	if age <= t.ActiveWindow && connectivity == models.ConnectivityOnline {
		return models.ActivityActive
	}
	if age <= t.RecentWindow {
		return models.ActivityRecentlyActive
	}
	return models.ActivityOffline
}
