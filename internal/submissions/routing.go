package submissions

import "github.com/Hunteraulo1/f95-france/internal/models"

// RoutingMode tells whether a change is applied at once or goes through moderation
type RoutingMode int

const (
	ThroughSubmission RoutingMode = iota
	Direct
)

func (m RoutingMode) String() string {
	if m == Direct {
		return "direct"
	}
	return "submission"
}

// DecideRoutingMode picks the path for a change. Only admins may write directly,
// and only while their direct-mode preference is on; a per-request override
// takes precedence over the stored preference.
func DecideRoutingMode(role models.Role, preference bool, override *bool) RoutingMode {
	if !role.IsAdmin() {
		return ThroughSubmission
	}
	direct := preference
	if override != nil {
		direct = *override
	}
	if direct {
		return Direct
	}
	return ThroughSubmission
}
