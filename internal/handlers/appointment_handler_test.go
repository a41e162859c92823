package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tranvdm/clinic-api/internal/models"
)

func init() { gin.SetMode(gin.TestMode) }

// patchAppointmentStatus drives UpdateAppointmentStatus with stubbed auth
// claims, the way the middleware would set them.
func patchAppointmentStatus(t *testing.T, h *Handler, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.PATCH("/appointments/:id/status", func(c *gin.Context) {
		c.Set("userID", primitive.NewObjectID().Hex())
		c.Set("userRole", role)
	}, h.UpdateAppointmentStatus)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+primitive.NewObjectID().Hex()+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateAppointmentStatusRefusesPaid(t *testing.T) {
	// PAID must only be reachable through payment confirmation, which
	// records the Payment document. The handler refuses it before touching
	// the database, so a nil-DB Handler is enough here.
	h := &Handler{}
	for _, role := range []string{models.RoleNurse, models.RoleSuperAdmin, models.RoleDoctor, models.RolePatient} {
		t.Run(role, func(t *testing.T) {
			w := patchAppointmentStatus(t, h, role, `{"status":"PAID"}`)
			if w.Code != http.StatusConflict {
				t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
			}
		})
	}
}
