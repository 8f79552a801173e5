package binder

import (
	"fmt"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/spatial"
)

// GeofenceResolver looks up a geofence referenced by a requirement.
// Returning nil, nil means the fence no longer exists; that requirement
// simply cannot be satisfied.
type GeofenceResolver func(id string) (*models.Geofence, error)

// Satisfies reports whether the position meets ANY of the requirements.
// An empty requirement list imposes no location gate and always passes.
func Satisfies(sample *models.PositionSample, reqs []models.TaskLocationRequirement, resolve GeofenceResolver) (bool, error) {
	if len(reqs) == 0 {
		return true, nil
	}
	for _, req := range reqs {
		ok, err := satisfied(sample, req, resolve)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func satisfied(sample *models.PositionSample, req models.TaskLocationRequirement, resolve GeofenceResolver) (bool, error) {
	if req.GeofenceID != nil && *req.GeofenceID != "" {
		fence, err := resolve(*req.GeofenceID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve geofence %s: %w", *req.GeofenceID, err)
		}
		if fence == nil {
			return false, nil
		}
		return spatial.IsWithin(sample.Latitude, sample.Longitude,
			fence.CenterLat, fence.CenterLng, fence.RadiusM), nil
	}

	// requirement validation guarantees explicit coordinates here
	return spatial.IsWithin(sample.Latitude, sample.Longitude,
		*req.Latitude, *req.Longitude, req.RadiusM), nil
}

// CheckIn decides whether a subject may check in to a task at the given
// position. Only requirements flagged arrival_required gate check-in.
// The decision is pure; the caller owns the status mutation.
func CheckIn(sample *models.PositionSample, reqs []models.TaskLocationRequirement, resolve GeofenceResolver) (models.Decision, error) {
	ok, err := Satisfies(sample, filterArrival(reqs), resolve)
	if err != nil {
		return models.Decision{}, err
	}
	if !ok {
		return models.Deny(models.ReasonOutsideArea), nil
	}
	return models.Approve(), nil
}

// CheckOut decides whether a subject may check out of a task. Check-out
// requires a prior check-in; only requirements flagged departure_required
// gate the location.
func CheckOut(sample *models.PositionSample, reqs []models.TaskLocationRequirement, checkedIn bool, resolve GeofenceResolver) (models.Decision, error) {
	if !checkedIn {
		return models.Deny(models.ReasonWrongState), nil
	}

	ok, err := Satisfies(sample, filterDeparture(reqs), resolve)
	if err != nil {
		return models.Decision{}, err
	}
	if !ok {
		return models.Deny(models.ReasonOutsideArea), nil
	}
	return models.Approve(), nil
}

func filterArrival(reqs []models.TaskLocationRequirement) []models.TaskLocationRequirement {
	var out []models.TaskLocationRequirement
	for _, r := range reqs {
		if r.ArrivalRequired {
			out = append(out, r)
		}
	}
	return out
}

func filterDeparture(reqs []models.TaskLocationRequirement) []models.TaskLocationRequirement {
	var out []models.TaskLocationRequirement
	for _, r := range reqs {
		if r.DepartureRequired {
			out = append(out, r)
		}
	}
	return out
}
