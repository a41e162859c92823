// Package workflow holds the status transition tables for appointments and
// leave requests. Handlers consult a Machine before applying any status
// change, so the legality of a transition lives in exactly one place instead
// of being re-encoded per role-scoped endpoint.
package workflow

import "github.com/tranvdm/clinic-api/internal/models"

// Machine is a role-aware transition table over status strings.
type Machine struct {
	transitions map[string]map[string][]string // from -> role -> allowed targets
	needsReason map[string]bool                // target statuses that require a reason
}

// Can reports whether role may move a record from one status to another.
func (m *Machine) Can(role, from, to string) bool {
	for _, t := range m.transitions[from][role] {
		if t == to {
			return true
		}
	}
	return false
}

// Actions lists the target statuses role may request from the given status.
func (m *Machine) Actions(role, from string) []string {
	return m.transitions[from][role]
}

// NeedsReason reports whether a transition into target requires a
// human-entered reason (rejections and cancellations do).
func (m *Machine) NeedsReason(target string) bool {
	return m.needsReason[target]
}

// Terminal reports whether no role can leave the given status.
func (m *Machine) Terminal(status string) bool {
	return len(m.transitions[status]) == 0
}

// Appointment is the booking lifecycle. Staff means nurse or super admin;
// both cancel on a patient's behalf with the same resulting status.
var Appointment = &Machine{
	transitions: map[string]map[string][]string{
		models.AptPendingApproval: {
			models.RoleDoctor:     {models.AptApproved, models.AptRejected},
			models.RolePatient:    {models.AptCancelledByPatient},
			models.RoleNurse:      {models.AptCancelledByStaff},
			models.RoleSuperAdmin: {models.AptCancelledByStaff},
		},
		models.AptApproved: {
			models.RoleDoctor:     {models.AptCompleted, models.AptCancelledByDoctor},
			models.RolePatient:    {models.AptCancelledByPatient},
			models.RoleNurse:      {models.AptCancelledByStaff},
			models.RoleSuperAdmin: {models.AptCancelledByStaff},
		},
		models.AptCompleted: {
			models.RoleNurse: {models.AptPaymentPending},
		},
		// Consulted by payment confirmation only. The generic status
		// endpoint refuses PAID so a Payment document is always recorded.
		models.AptPaymentPending: {
			models.RoleNurse: {models.AptPaid},
		},
	},
	needsReason: map[string]bool{
		models.AptRejected:           true,
		models.AptCancelledByPatient: true,
		models.AptCancelledByDoctor:  true,
		models.AptCancelledByStaff:   true,
	},
}

// Leave is the two-tier leave approval chain: HOD forwards or rejects,
// super admin decides. A HOD's own request is created directly in
// PENDING_SA_APPROVAL (see InitialLeaveStatus).
var Leave = &Machine{
	transitions: map[string]map[string][]string{
		models.LeavePendingHOD: {
			models.RoleHOD: {models.LeavePendingSA, models.LeaveRejected},
		},
		models.LeavePendingSA: {
			models.RoleSuperAdmin: {models.LeaveApproved, models.LeaveRejected},
		},
	},
	needsReason: map[string]bool{
		models.LeaveRejected: true,
	},
}

// InitialLeaveStatus returns the status a fresh leave request starts in for
// the given requester role.
func InitialLeaveStatus(requesterRole string) string {
	if requesterRole == models.RoleHOD {
		return models.LeavePendingSA
	}
	return models.LeavePendingHOD
}
