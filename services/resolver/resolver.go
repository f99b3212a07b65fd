package resolver

import (
	"strings"

	agentTypes "tripdesk/types/agent"
)

// The display names used when attribution cannot be pinned to a person.
const (
	NameUnassigned = "Unassigned"
	NameUnknown    = "Unknown Agent"
	NameAdmin      = "Admin"
)

// CandidateID digs an agent identifier out of whatever shape the upstream
// stored: a plain id string, a populated sub-document with _id or id, or a
// nested reference object. The literal strings "undefined" and "null" are
// artifacts of the old client and never valid ids.
func CandidateID(agentRef any) string {
	switch ref := agentRef.(type) {
	case string:
		return cleanID(ref)
	case map[string]any:
		for _, key := range []string{"_id", "id"} {
			if s, ok := ref[key].(string); ok {
				if id := cleanID(s); id != "" {
					return id
				}
			}
		}
		for _, key := range []string{"agent", "ref"} {
			if nested, ok := ref[key]; ok {
				if id := CandidateID(nested); id != "" {
					return id
				}
			}
		}
	}
	return ""
}

func cleanID(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "undefined", "null":
		return ""
	}
	return s
}

// ResolveName maps an agent reference to a display name. The chain degrades
// step by step so a booking with broken attribution still renders:
//
//  1. no extractable id at all          -> "Unassigned"
//  2. roster match (exact, then space-insensitive, then 12-char suffix)
//  3. fallback name embedded in the booking record
//  4. the current user themselves
//  5. "Unknown Agent"
//
// Names containing "admin" or "super" collapse to "Admin" so internal
// operator accounts never show up under their own names.
func ResolveName(agentRef any, roster []agentTypes.Agent, fallbackName string, current *agentTypes.Current) string {
	id := CandidateID(agentRef)
	if id == "" {
		return NameUnassigned
	}

	if match := findInRoster(id, roster); match != nil {
		return maskAdmin(match.Name)
	}

	if name := strings.TrimSpace(fallbackName); name != "" {
		return maskAdmin(name)
	}

	if current != nil && strings.EqualFold(id, current.ID) {
		if current.IsAdmin() {
			return NameAdmin
		}
		if name := strings.TrimSpace(current.Name); name != "" {
			return name
		}
	}

	return NameUnknown
}

// findInRoster tries the matching tiers in order; a later tier only runs when
// the earlier one found nothing across the whole roster.
func findInRoster(id string, roster []agentTypes.Agent) *agentTypes.Agent {
	for i := range roster {
		if strings.EqualFold(roster[i].Key(), id) {
			return &roster[i]
		}
	}

	squeezed := squeeze(id)
	for i := range roster {
		if squeeze(roster[i].Key()) == squeezed {
			return &roster[i]
		}
	}

	// Some exports truncate ids; the trailing 12 characters are enough to
	// tell Mongo object ids apart.
	suffix := tail(squeezed, 12)
	if suffix != "" {
		for i := range roster {
			if tail(squeeze(roster[i].Key()), 12) == suffix {
				return &roster[i]
			}
		}
	}

	return nil
}

func maskAdmin(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "admin") || strings.Contains(lower, "super") {
		return NameAdmin
	}
	return name
}

func squeeze(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
