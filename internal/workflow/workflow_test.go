package workflow

import (
	"testing"

	"github.com/tranvdm/clinic-api/internal/models"
)

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		name string
		role string
		from string
		to   string
		want bool
	}{
		{"doctor approves pending", models.RoleDoctor, models.AptPendingApproval, models.AptApproved, true},
		{"doctor rejects pending", models.RoleDoctor, models.AptPendingApproval, models.AptRejected, true},
		{"doctor completes approved", models.RoleDoctor, models.AptApproved, models.AptCompleted, true},
		{"patient cancels pending", models.RolePatient, models.AptPendingApproval, models.AptCancelledByPatient, true},
		{"patient cancels approved", models.RolePatient, models.AptApproved, models.AptCancelledByPatient, true},
		{"nurse cancels for patient", models.RoleNurse, models.AptPendingApproval, models.AptCancelledByStaff, true},
		{"nurse raises invoice", models.RoleNurse, models.AptCompleted, models.AptPaymentPending, true},
		{"nurse confirms payment", models.RoleNurse, models.AptPaymentPending, models.AptPaid, true},

		{"patient cannot approve", models.RolePatient, models.AptPendingApproval, models.AptApproved, false},
		{"doctor cannot confirm payment", models.RoleDoctor, models.AptPaymentPending, models.AptPaid, false},
		{"nurse cannot approve", models.RoleNurse, models.AptPendingApproval, models.AptApproved, false},
		{"no skipping to paid", models.RoleNurse, models.AptApproved, models.AptPaid, false},
		{"rejected is final", models.RoleDoctor, models.AptRejected, models.AptApproved, false},
		{"patient cannot cancel completed", models.RolePatient, models.AptCompleted, models.AptCancelledByPatient, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Appointment.Can(tc.role, tc.from, tc.to); got != tc.want {
				t.Errorf("Can(%s, %s -> %s) = %v, want %v", tc.role, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestAppointmentTerminalStatuses(t *testing.T) {
	terminal := []string{
		models.AptRejected,
		models.AptCancelledByPatient,
		models.AptCancelledByDoctor,
		models.AptCancelledByStaff,
		models.AptPaid,
	}
	for _, s := range terminal {
		if !Appointment.Terminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	if Appointment.Terminal(models.AptApproved) {
		t.Error("APPROVED must not be terminal")
	}
}

func TestAppointmentReasonRequired(t *testing.T) {
	for _, s := range []string{
		models.AptRejected,
		models.AptCancelledByPatient,
		models.AptCancelledByDoctor,
		models.AptCancelledByStaff,
	} {
		if !Appointment.NeedsReason(s) {
			t.Errorf("expected reason required for %s", s)
		}
	}
	if Appointment.NeedsReason(models.AptApproved) {
		t.Error("APPROVED must not require a reason")
	}
}

func TestAppointmentActions(t *testing.T) {
	got := Appointment.Actions(models.RoleDoctor, models.AptPendingApproval)
	if len(got) != 2 {
		t.Fatalf("expected 2 doctor actions on pending, got %v", got)
	}
	if got := Appointment.Actions(models.RolePatient, models.AptPaid); len(got) != 0 {
		t.Errorf("expected no actions on PAID, got %v", got)
	}
}

func TestLeaveApprovalChain(t *testing.T) {
	t.Run("hod forwards", func(t *testing.T) {
		if !Leave.Can(models.RoleHOD, models.LeavePendingHOD, models.LeavePendingSA) {
			t.Error("HOD must be able to forward to super admin")
		}
	})
	t.Run("hod rejects", func(t *testing.T) {
		if !Leave.Can(models.RoleHOD, models.LeavePendingHOD, models.LeaveRejected) {
			t.Error("HOD must be able to reject")
		}
	})
	t.Run("hod cannot approve outright", func(t *testing.T) {
		if Leave.Can(models.RoleHOD, models.LeavePendingHOD, models.LeaveApproved) {
			t.Error("final approval belongs to super admin only")
		}
	})
	t.Run("admin decides second tier", func(t *testing.T) {
		if !Leave.Can(models.RoleSuperAdmin, models.LeavePendingSA, models.LeaveApproved) {
			t.Error("super admin must be able to approve")
		}
		if !Leave.Can(models.RoleSuperAdmin, models.LeavePendingSA, models.LeaveRejected) {
			t.Error("super admin must be able to reject")
		}
	})
	t.Run("admin cannot act on first tier", func(t *testing.T) {
		if Leave.Can(models.RoleSuperAdmin, models.LeavePendingHOD, models.LeaveApproved) {
			t.Error("first tier belongs to HOD")
		}
	})
	t.Run("decisions are final", func(t *testing.T) {
		if !Leave.Terminal(models.LeaveApproved) || !Leave.Terminal(models.LeaveRejected) {
			t.Error("APPROVED and REJECTED must be terminal")
		}
	})
}

func TestInitialLeaveStatus(t *testing.T) {
	if got := InitialLeaveStatus(models.RoleDoctor); got != models.LeavePendingHOD {
		t.Errorf("doctor request should start at HOD tier, got %s", got)
	}
	if got := InitialLeaveStatus(models.RoleHOD); got != models.LeavePendingSA {
		t.Errorf("HOD's own request should skip to super admin tier, got %s", got)
	}
}
