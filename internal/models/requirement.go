package models

// TaskLocationRequirement gates check-in/check-out on a task. Either
// GeofenceID or the explicit coordinate triple is set, never both and never
// neither. A task may carry any number of requirements; satisfying any one
// of them is enough.
type TaskLocationRequirement struct {
	ID                int64    `json:"id" db:"id"`
	TaskID            string   `json:"taskId" db:"task_id"`
	GeofenceID        *string  `json:"geofenceId,omitempty" db:"geofence_id"`
	Latitude          *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude         *float64 `json:"longitude,omitempty" db:"longitude"`
	RadiusM           float64  `json:"radiusM" db:"radius_meters"`
	ArrivalRequired   bool     `json:"arrivalRequired" db:"arrival_required"`
	DepartureRequired bool     `json:"departureRequired" db:"departure_required"`
}

// Validate rejects requirements that could never be evaluated
func (r *TaskLocationRequirement) Validate() error {
	hasGeofence := r.GeofenceID != nil && *r.GeofenceID != ""
	hasCoords := r.Latitude != nil && r.Longitude != nil
	if hasGeofence == hasCoords {
		// neither or both set
		return ErrInvalidGeofenceSpec
	}
	if hasCoords && r.RadiusM <= 0 {
		return ErrInvalidGeofenceSpec
	}
	return nil
}

// Denial reasons for check decisions
const (
	ReasonOutsideArea = "outside_required_area"
	ReasonWrongState  = "wrong_state"
)

// Decision is the outcome of a check-in/check-out request. A denial is a
// normal result, not an error; the task status mutation itself belongs to
// the task layer.
type Decision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// Approve returns an approving decision
func Approve() Decision {
	return Decision{Approved: true}
}

// Deny returns a denying decision with the given reason
func Deny(reason string) Decision {
	return Decision{Approved: false, Reason: reason}
}
