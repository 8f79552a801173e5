package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// inMemoryLocationRepository keeps samples per subject in append order.
// Used in tests and small single-process deployments.
type inMemoryLocationRepository struct {
	mutex   sync.RWMutex
	nextID  int64
	samples map[string][]models.PositionSample
}

// NewInMemoryLocationRepository creates an in-memory location repository
func NewInMemoryLocationRepository() LocationRepository {
	return &inMemoryLocationRepository{
		nextID:  1,
		samples: make(map[string][]models.PositionSample),
	}
}

func (r *inMemoryLocationRepository) Append(ctx context.Context, sample *models.PositionSample) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sample.ID = r.nextID
	r.nextID++
	r.samples[sample.SubjectID] = append(r.samples[sample.SubjectID], *sample)
	return nil
}

func (r *inMemoryLocationRepository) LatestBySubject(ctx context.Context, subjectID string) (*models.PositionSample, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var latest *models.PositionSample
	for i := range r.samples[subjectID] {
		s := r.samples[subjectID][i]
		if latest == nil || !s.RecordedAt.Before(latest.RecordedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *inMemoryLocationRepository) History(ctx context.Context, subjectID string, from, to time.Time) ([]models.PositionSample, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []models.PositionSample
	// append order doubles as the tie-break for equal timestamps
	for _, s := range r.samples[subjectID] {
		if s.RecordedAt.Before(from) || s.RecordedAt.After(to) {
			continue
		}
		result = append(result, s)
	}
	sortSamplesStable(result)
	return result, nil
}

// sortSamplesStable orders by recorded_at keeping append order for ties
func sortSamplesStable(samples []models.PositionSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].RecordedAt.Before(samples[j].RecordedAt)
	})
}
