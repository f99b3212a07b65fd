package agent

// Agent is one roster entry from the upstream /api/agent resource.
type Agent struct {
	ID    string `json:"_id"`
	AltID string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Key returns the identifier to match bookings against, preferring the
// Mongo-style _id over the plain id.
func (a Agent) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.AltID
}

// FromRaw maps the decoded roster response into typed agents, skipping
// entries that are not objects.
func FromRaw(items []any) []Agent {
	roster := make([]Agent, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := Agent{}
		if s, ok := m["_id"].(string); ok {
			a.ID = s
		}
		if s, ok := m["id"].(string); ok {
			a.AltID = s
		}
		if s, ok := m["name"].(string); ok {
			a.Name = s
		}
		if s, ok := m["email"].(string); ok {
			a.Email = s
		}
		if s, ok := m["role"].(string); ok {
			a.Role = s
		}
		if a.Key() != "" || a.Name != "" {
			roster = append(roster, a)
		}
	}
	return roster
}

// Current is the authenticated user taken from the JWT claims. Used as the
// last resort when a booking references the caller themselves.
type Current struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsAdmin reports whether the role marks the user as an administrator.
func (c Current) IsAdmin() bool {
	switch c.Role {
	case "admin", "superadmin", "super_admin":
		return true
	default:
		return false
	}
}
