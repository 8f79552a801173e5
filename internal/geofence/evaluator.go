package geofence

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/spatial"
)

// containment is the remembered state for one (subject, geofence) pair
type containment struct {
	inside        bool
	lastArrival   time.Time
	lastDeparture time.Time
}

// Evaluator derives debounced arrival/departure events from position
// samples. It holds per-(subject, geofence) containment memory; a
// transition is emitted only when the containment state flips AND no event
// of the same type was emitted for that pair within the debounce window.
// Jitter at a fence boundary therefore produces at most one event per
// window instead of a burst.
type Evaluator struct {
	mu       sync.Mutex
	debounce time.Duration
	states   map[string]map[string]*containment // subject -> geofence -> state
}

// NewEvaluator creates an evaluator with the given debounce window
func NewEvaluator(debounce time.Duration) *Evaluator {
	return &Evaluator{
		debounce: debounce,
		states:   make(map[string]map[string]*containment),
	}
}

// Evaluate computes containment of one sample against the active geofences
// and returns zero or one transition event per geofence. The sample's
// recorded_at drives the debounce clock, keeping replays deterministic.
func (e *Evaluator) Evaluate(sample *models.PositionSample, fences []models.Geofence) []models.GeofenceTransitionEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	subject := e.states[sample.SubjectID]
	if subject == nil {
		subject = make(map[string]*containment)
		e.states[sample.SubjectID] = subject
	}

	var events []models.GeofenceTransitionEvent
	for _, fence := range fences {
		if !fence.Active {
			continue
		}

		inside := spatial.IsWithin(sample.Latitude, sample.Longitude,
			fence.CenterLat, fence.CenterLng, fence.RadiusM)

		state, known := subject[fence.ID]
		if !known {
			state = &containment{}
			subject[fence.ID] = state
			if inside {
				// no prior state said the subject was already here
				state.inside = true
				state.lastArrival = sample.RecordedAt
				events = append(events, e.newEvent(sample, fence.ID, models.TransitionArrival))
			}
			continue
		}

		if inside == state.inside {
			continue
		}
		state.inside = inside

		if inside {
			if sample.RecordedAt.Sub(state.lastArrival) < e.debounce && !state.lastArrival.IsZero() {
				continue
			}
			state.lastArrival = sample.RecordedAt
			events = append(events, e.newEvent(sample, fence.ID, models.TransitionArrival))
		} else {
			if sample.RecordedAt.Sub(state.lastDeparture) < e.debounce && !state.lastDeparture.IsZero() {
				continue
			}
			state.lastDeparture = sample.RecordedAt
			events = append(events, e.newEvent(sample, fence.ID, models.TransitionDeparture))
		}
	}

	return events
}

// Forget drops cached containment state for a geofence, for all subjects.
// Called when a fence is deleted or deactivated.
func (e *Evaluator) Forget(geofenceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, subject := range e.states {
		delete(subject, geofenceID)
	}
}

func (e *Evaluator) newEvent(sample *models.PositionSample, geofenceID, eventType string) models.GeofenceTransitionEvent {
	return models.GeofenceTransitionEvent{
		ID:         uuid.NewString(),
		SubjectID:  sample.SubjectID,
		GeofenceID: geofenceID,
		Type:       eventType,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		RecordedAt: sample.RecordedAt,
		CreatedAt:  time.Now().UTC(),
	}
}
