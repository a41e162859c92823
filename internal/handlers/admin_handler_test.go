package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListClinicDoctorsRequiresClinicClaim(t *testing.T) {
	// A HOD token without a clinic affiliation must be refused before any
	// database access.
	h := &Handler{}
	r := gin.New()
	r.GET("/doctors", h.ListClinicDoctors)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/doctors", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
