package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestTransportInjectsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Appointment{})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save("tok-abc", &User{ID: "u1"})
	c, _ := New(srv.URL, store)

	if _, err := c.ListAppointments(context.Background(), "patient", nil); err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestTransportNoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Appointment{})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, NewMemoryStore())
	if _, err := c.ListAppointments(context.Background(), "patient", nil); err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestTransportClearsTokenOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save("expired-tok", &User{ID: "u1"})
	c, _ := New(srv.URL, store)

	_, err := c.ListAppointments(context.Background(), "patient", nil)
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindUnauthorized {
		t.Fatalf("expected KindUnauthorized, got %v", err)
	}

	token, user, _ := store.Load()
	if token != "" {
		t.Error("401 must clear the stored token")
	}
	if user == nil {
		t.Error("401 clears only the token, not the cached user")
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{"validation", 422, `{"errors":{"name":["Name already exists"]}}`, KindValidation, ""},
		{"forbidden", 403, `{"error":"Insufficient permissions"}`, KindForbidden, "Insufficient permissions"},
		{"not found", 404, `{"error":"Appointment not found"}`, KindNotFound, "Appointment not found"},
		{"server error with message", 500, `{"error":"boom"}`, KindGeneric, "boom"},
		{"server error without message", 500, `{}`, KindGeneric, fallbackMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, _ := New(srv.URL, NewMemoryStore())
			_, err := c.ListAppointments(context.Background(), "admin", nil)
			apiErr, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tc.wantKind)
			}
			if tc.wantMsg != "" && apiErr.Message != tc.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tc.wantMsg)
			}
			if tc.wantKind == KindValidation && len(apiErr.Fields["name"]) == 0 {
				t.Error("validation error must carry the field map")
			}
		})
	}
}

func TestUpdateAppointmentStatusRequest(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Appointment{ID: "42", Status: gotBody["status"]})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Save("tok", &User{ID: "d1", Roles: []Role{RoleDoctor}})
	c, _ := New(srv.URL, store)

	apt, err := c.UpdateAppointmentStatus(context.Background(), "doctor", "42", "APPROVED", "")
	if err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/doctor/appointments/42/status" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody["status"] != "APPROVED" {
		t.Errorf("body = %v", gotBody)
	}
	if _, hasReason := gotBody["reason"]; hasReason {
		t.Error("reason must be omitted when empty")
	}
	if apt.Status != "APPROVED" {
		t.Errorf("apt.Status = %q", apt.Status)
	}
}

func TestConfirmPaymentRequest(t *testing.T) {
	var gotPath string
	var gotBody PaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, NewMemoryStore())
	err := c.ConfirmPayment(context.Background(), "7", PaymentRequest{Amount: 150000, PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if gotPath != "/nurse/payments/7/confirm" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Amount != 150000 || gotBody.PaymentMethod != "CASH" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestConfirmPaymentRejectsNonPositiveAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))
	defer srv.Close()

	c, _ := New(srv.URL, NewMemoryStore())
	err := c.ConfirmPayment(context.Background(), "7", PaymentRequest{Amount: 0, PaymentMethod: "CASH"})
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListAppointmentsQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]Appointment{})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, NewMemoryStore())
	q := url.Values{}
	q.Set("status", "PENDING_APPROVAL")
	q.Set("with", "patient,doctor")
	if _, err := c.ListAppointments(context.Background(), "doctor", q); err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if gotQuery.Get("status") != "PENDING_APPROVAL" || gotQuery.Get("with") != "patient,doctor" {
		t.Errorf("query = %v", gotQuery)
	}
}
