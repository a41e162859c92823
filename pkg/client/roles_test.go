package client

import (
	"encoding/json"
	"testing"
)

func TestRoleUnmarshalBothShapes(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"id":"u1","roles":["DOCTOR","NURSE_STAFF"]}`), &u); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if u.PrimaryRole() != RoleDoctor {
			t.Errorf("primary role = %q", u.PrimaryRole())
		}
	})

	t.Run("object with name", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"id":"u1","roles":[{"name":"HEAD_OF_DEPARTMENT"}]}`), &u); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if u.PrimaryRole() != RoleHOD {
			t.Errorf("primary role = %q", u.PrimaryRole())
		}
	})

	t.Run("mixed", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"roles":["PATIENT",{"name":"DOCTOR"}]}`), &u); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if u.Roles[0] != RolePatient || u.Roles[1] != RoleDoctor {
			t.Errorf("roles = %v", u.Roles)
		}
	})
}

func TestLeaveRequestFormValidate(t *testing.T) {
	t.Run("end before start", func(t *testing.T) {
		form := LeaveRequestForm{StartDate: "2026-09-10", EndDate: "2026-09-09", Reason: "nghỉ phép"}
		errs := form.Validate()
		if len(errs["end_date"]) == 0 {
			t.Error("expected end_date error")
		}
	})
	t.Run("end equals start", func(t *testing.T) {
		form := LeaveRequestForm{StartDate: "2026-09-10", EndDate: "2026-09-10", Reason: "nghỉ phép"}
		if errs := form.Validate(); len(errs["end_date"]) == 0 {
			t.Error("end_date <= start_date must be rejected")
		}
	})
	t.Run("valid range", func(t *testing.T) {
		form := LeaveRequestForm{StartDate: "2026-09-10", EndDate: "2026-09-12", Reason: "nghỉ phép"}
		if errs := form.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
	t.Run("missing reason", func(t *testing.T) {
		form := LeaveRequestForm{StartDate: "2026-09-10", EndDate: "2026-09-12"}
		if errs := form.Validate(); len(errs["reason"]) == 0 {
			t.Error("expected reason error")
		}
	})
}

func TestCreateLeaveRequestBlocksInvalidForm(t *testing.T) {
	// No server at all: an invalid form must never produce a request.
	c, err := New("http://127.0.0.1:1", NewMemoryStore())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.CreateLeaveRequest(t.Context(), "doctor", LeaveRequestForm{
		StartDate: "2026-09-10",
		EndDate:   "2026-09-10",
		Reason:    "việc gia đình",
	})
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrescriptionTotal(t *testing.T) {
	p := Prescription{Items: []PrescriptionItem{
		{UnitPrice: 5000, Quantity: 20},
		{UnitPrice: 1200, Quantity: 10},
	}}
	if got := p.Total(); got != 112000 {
		t.Errorf("Total = %v, want 112000", got)
	}
}
