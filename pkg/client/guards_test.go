package client

import "testing"

func TestGuestGuard(t *testing.T) {
	cases := []struct {
		name  string
		state SessionState
		want  GuardDecision
	}{
		{"loading", SessionState{Loading: true}, Placeholder},
		{"authenticated", SessionState{IsAuthenticated: true}, RedirectDashboard},
		{"anonymous", SessionState{}, Render},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GuestGuard(tc.state); got != tc.want {
				t.Errorf("GuestGuard(%+v) = %v, want %v", tc.state, got, tc.want)
			}
		})
	}
}

func TestAuthGuard(t *testing.T) {
	cases := []struct {
		name  string
		state SessionState
		want  GuardDecision
	}{
		{"loading", SessionState{Loading: true}, Placeholder},
		{"anonymous", SessionState{}, RedirectLogin},
		{"authenticated", SessionState{IsAuthenticated: true}, Render},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AuthGuard(tc.state); got != tc.want {
				t.Errorf("AuthGuard(%+v) = %v, want %v", tc.state, got, tc.want)
			}
		})
	}
}

func TestRoleGuard(t *testing.T) {
	doctor := SessionState{IsAuthenticated: true, Roles: []Role{RoleDoctor}}

	t.Run("loading", func(t *testing.T) {
		if got := RoleGuard(SessionState{Loading: true}, RoleDoctor); got != Placeholder {
			t.Errorf("got %v", got)
		}
	})
	t.Run("anonymous", func(t *testing.T) {
		if got := RoleGuard(SessionState{}, RoleDoctor); got != RedirectLogin {
			t.Errorf("got %v", got)
		}
	})
	t.Run("role allowed", func(t *testing.T) {
		if got := RoleGuard(doctor, RoleDoctor, RoleHOD); got != Render {
			t.Errorf("got %v", got)
		}
	})
	t.Run("role not in allow list", func(t *testing.T) {
		if got := RoleGuard(doctor, RoleSuperAdmin); got != RedirectUnauthorized {
			t.Errorf("got %v", got)
		}
	})
	t.Run("authenticated without roles", func(t *testing.T) {
		state := SessionState{IsAuthenticated: true}
		if got := RoleGuard(state, RolePatient); got != RedirectUnauthorized {
			t.Errorf("got %v", got)
		}
	})
}
