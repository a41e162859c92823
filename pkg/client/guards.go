package client

// SessionState is the input every guard is a pure function of.
type SessionState struct {
	Loading         bool
	IsAuthenticated bool
	Roles           []Role
}

// GuardDecision tells the caller what to render or where to send the user.
type GuardDecision int

const (
	Render GuardDecision = iota
	Placeholder
	RedirectLogin
	RedirectDashboard
	RedirectUnauthorized
)

func (d GuardDecision) String() string {
	switch d {
	case Render:
		return "render"
	case Placeholder:
		return "placeholder"
	case RedirectLogin:
		return "redirect:/login"
	case RedirectDashboard:
		return "redirect:dashboard"
	case RedirectUnauthorized:
		return "redirect:/unauthorized"
	}
	return "unknown"
}

// GuestGuard protects login/register screens: authenticated users are sent
// to their dashboard.
func GuestGuard(s SessionState) GuardDecision {
	if s.Loading {
		return Placeholder
	}
	if s.IsAuthenticated {
		return RedirectDashboard
	}
	return Render
}

// AuthGuard protects any screen that requires a signed-in user.
func AuthGuard(s SessionState) GuardDecision {
	if s.Loading {
		return Placeholder
	}
	if !s.IsAuthenticated {
		return RedirectLogin
	}
	return Render
}

// RoleGuard additionally requires one of the allowed roles. Decisions are
// recomputed on every call; nothing is cached.
func RoleGuard(s SessionState, allowed ...Role) GuardDecision {
	if s.Loading {
		return Placeholder
	}
	if !s.IsAuthenticated {
		return RedirectLogin
	}
	for _, have := range s.Roles {
		for _, want := range allowed {
			if have == want {
				return Render
			}
		}
	}
	return RedirectUnauthorized
}
