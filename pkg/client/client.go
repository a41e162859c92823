// Package client is the Go SDK for the clinic management API. It mirrors
// what the browser app keeps on its side of the wire: a session with
// persisted credentials, a transport that injects the bearer token, route
// guards, and typed calls for the role-scoped endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	base    *url.URL
	http    *http.Client
	session *Session
}

// New builds a client against baseURL, persisting credentials in store.
func New(baseURL string, store CredentialStore) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &authTransport{store: store, next: http.DefaultTransport},
		},
		session: NewSession(store),
	}, nil
}

func (c *Client) Session() *Session { return c.session }

// Login authenticates and caches the token/user pair.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.session.login(ctx, c.http, c.endpoint("/login"), email, password)
}

// Logout clears local credentials; the server call is fire-and-forget.
func (c *Client) Logout(ctx context.Context) {
	c.session.logout(ctx, c.http, c.endpoint("/logout"))
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// do runs a JSON request and decodes a 2xx body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return netError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return netError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Kind: KindGeneric, Message: "Malformed response", cause: err}
		}
	}
	return nil
}

// Appointment mirrors the server's appointment resource.
type Appointment struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	DoctorID     string    `json:"doctorId"`
	ClinicID     string    `json:"clinicId"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	StatusReason string    `json:"statusReason,omitempty"`
	Patient      *User     `json:"patient,omitempty"`
	Doctor       *User     `json:"doctor,omitempty"`
}

// ListAppointments fetches the caller's role-scoped list. rolePrefix is the
// route group the signed-in role uses ("patient", "doctor", "nurse", "hod",
// "admin").
func (c *Client) ListAppointments(ctx context.Context, rolePrefix string, query url.Values) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/"+rolePrefix+"/appointments", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAppointmentStatus issues the status PATCH behind every
// approve/reject/cancel/complete action.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, rolePrefix, id, status, reason string) (*Appointment, error) {
	var out Appointment
	body := map[string]string{"status": status}
	if reason != "" {
		body["reason"] = reason
	}
	err := c.do(ctx, http.MethodPatch, "/"+rolePrefix+"/appointments/"+id+"/status", nil, body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentRequest is the nurse cashier form.
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Note          string  `json:"note,omitempty"`
}

// ConfirmPayment settles a PAYMENT_PENDING appointment. The amount is
// validated locally before any network call.
func (c *Client) ConfirmPayment(ctx context.Context, appointmentID string, req PaymentRequest) error {
	if req.Amount <= 0 {
		return &APIError{
			Kind:   KindValidation,
			Fields: map[string][]string{"amount": {"Amount must be greater than zero"}},
		}
	}
	return c.do(ctx, http.MethodPost, "/nurse/payments/"+appointmentID+"/confirm", nil, req, nil)
}

// LeaveRequestForm is the staff leave form.
type LeaveRequestForm struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

// Validate applies the client-side checks the form runs before submitting.
func (f LeaveRequestForm) Validate() map[string][]string {
	errs := map[string][]string{}
	start, err1 := time.Parse("2006-01-02", f.StartDate)
	end, err2 := time.Parse("2006-01-02", f.EndDate)
	if err1 != nil {
		errs["start_date"] = append(errs["start_date"], "Start date must be YYYY-MM-DD")
	}
	if err2 != nil {
		errs["end_date"] = append(errs["end_date"], "End date must be YYYY-MM-DD")
	}
	if err1 == nil && err2 == nil && !end.After(start) {
		errs["end_date"] = append(errs["end_date"], "End date must be after start date")
	}
	if strings.TrimSpace(f.Reason) == "" {
		errs["reason"] = append(errs["reason"], "Reason is required")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LeaveRequest mirrors the server resource.
type LeaveRequest struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	RejectReason string `json:"rejectReason,omitempty"`
}

// CreateLeaveRequest validates locally first; an invalid form never reaches
// the network.
func (c *Client) CreateLeaveRequest(ctx context.Context, rolePrefix string, form LeaveRequestForm) (*LeaveRequest, error) {
	if errs := form.Validate(); errs != nil {
		return nil, &APIError{Kind: KindValidation, Fields: errs}
	}
	var out LeaveRequest
	if err := c.do(ctx, http.MethodPost, "/"+rolePrefix+"/leave-requests", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PrescriptionItem carries the display fields for the prescription table.
type PrescriptionItem struct {
	MedicineID string  `json:"medicineId"`
	Dosage     string  `json:"dosage"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
}

type Prescription struct {
	ID     string             `json:"id"`
	Number string             `json:"number"`
	Items  []PrescriptionItem `json:"items"`
}

// Total is the display-only sum of price × quantity.
func (p *Prescription) Total() float64 {
	var total float64
	for _, it := range p.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
