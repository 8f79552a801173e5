package binder

import (
	"testing"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

var fences = map[string]*models.Geofence{
	"warehouse": {
		ID:        "warehouse",
		Name:      "Warehouse",
		CenterLat: -1.2921,
		CenterLng: 36.8219,
		RadiusM:   100,
		Active:    true,
	},
	"depot": {
		ID:        "depot",
		Name:      "Depot",
		CenterLat: -1.3500,
		CenterLng: 36.9000,
		RadiusM:   100,
		Active:    true,
	},
}

func resolve(id string) (*models.Geofence, error) {
	return fences[id], nil
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func atDepot() *models.PositionSample {
	return &models.PositionSample{SubjectID: "s1", Latitude: -1.3500, Longitude: 36.9000}
}

func nowhere() *models.PositionSample {
	return &models.PositionSample{SubjectID: "s1", Latitude: 10, Longitude: 10}
}

func TestCheckInAnyOfSemantics(t *testing.T) {
	// subject is only within the second requirement
	reqs := []models.TaskLocationRequirement{
		{TaskID: "t1", GeofenceID: strPtr("warehouse"), ArrivalRequired: true},
		{TaskID: "t1", GeofenceID: strPtr("depot"), ArrivalRequired: true},
	}

	d, err := CheckIn(atDepot(), reqs, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Approved {
		t.Errorf("check-in denied (%s) though second requirement is satisfied", d.Reason)
	}
}

func TestCheckInDeniedOutsideAllRequirements(t *testing.T) {
	reqs := []models.TaskLocationRequirement{
		{TaskID: "t1", GeofenceID: strPtr("warehouse"), ArrivalRequired: true},
		{TaskID: "t1", GeofenceID: strPtr("depot"), ArrivalRequired: true},
	}

	d, err := CheckIn(nowhere(), reqs, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if d.Approved || d.Reason != models.ReasonOutsideArea {
		t.Errorf("decision = %+v, want denial with outside_required_area", d)
	}
}

func TestCheckInExplicitCoordinates(t *testing.T) {
	reqs := []models.TaskLocationRequirement{
		{
			TaskID:          "t1",
			Latitude:        f64Ptr(-1.3500),
			Longitude:       f64Ptr(36.9000),
			RadiusM:         150,
			ArrivalRequired: true,
		},
	}

	d, err := CheckIn(atDepot(), reqs, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Approved {
		t.Errorf("check-in denied (%s) inside explicit radius", d.Reason)
	}
}

func TestCheckInNoRequirementsPasses(t *testing.T) {
	d, err := CheckIn(nowhere(), nil, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Approved {
		t.Errorf("check-in with no requirements denied: %+v", d)
	}
}

func TestCheckOutRequiresCheckedInState(t *testing.T) {
	d, err := CheckOut(atDepot(), nil, false, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if d.Approved || d.Reason != models.ReasonWrongState {
		t.Errorf("decision = %+v, want denial with wrong_state", d)
	}
}

func TestCheckOutGatedByDepartureRequirements(t *testing.T) {
	reqs := []models.TaskLocationRequirement{
		{TaskID: "t1", GeofenceID: strPtr("warehouse"), DepartureRequired: true},
	}

	d, err := CheckOut(nowhere(), reqs, true, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if d.Approved {
		t.Error("check-out approved outside the departure-required fence")
	}

	inWarehouse := &models.PositionSample{SubjectID: "s1", Latitude: -1.2921, Longitude: 36.8219}
	d, err = CheckOut(inWarehouse, reqs, true, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Approved {
		t.Errorf("check-out denied (%s) inside the departure-required fence", d.Reason)
	}
}

func TestMissingGeofenceCannotSatisfy(t *testing.T) {
	reqs := []models.TaskLocationRequirement{
		{TaskID: "t1", GeofenceID: strPtr("demolished"), ArrivalRequired: true},
	}

	d, err := CheckIn(atDepot(), reqs, resolve)
	if err != nil {
		t.Fatal(err)
	}
	if d.Approved {
		t.Error("check-in approved against a fence that no longer exists")
	}
}

func TestRequirementValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     models.TaskLocationRequirement
		wantErr bool
	}{
		{"geofence only", models.TaskLocationRequirement{GeofenceID: strPtr("warehouse")}, false},
		{"coords only", models.TaskLocationRequirement{Latitude: f64Ptr(1), Longitude: f64Ptr(1), RadiusM: 50}, false},
		{"neither", models.TaskLocationRequirement{}, true},
		{"both", models.TaskLocationRequirement{GeofenceID: strPtr("warehouse"), Latitude: f64Ptr(1), Longitude: f64Ptr(1), RadiusM: 50}, true},
		{"coords with zero radius", models.TaskLocationRequirement{Latitude: f64Ptr(1), Longitude: f64Ptr(1)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
