package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	agentTypes "tripdesk/types/agent"
)

func TestCandidateID(t *testing.T) {
	cases := []struct {
		name string
		ref  any
		want string
	}{
		{"plain string", "abc123", "abc123"},
		{"padded string", "  abc123  ", "abc123"},
		{"undefined artifact", "undefined", ""},
		{"null artifact", "NULL", ""},
		{"empty", "", ""},
		{"sub-document _id", map[string]any{"_id": "64f0c2", "name": "X"}, "64f0c2"},
		{"sub-document id", map[string]any{"id": "a77"}, "a77"},
		{"_id wins over id", map[string]any{"_id": "first", "id": "second"}, "first"},
		{"undefined _id falls to id", map[string]any{"_id": "undefined", "id": "real"}, "real"},
		{"nested agent ref", map[string]any{"agent": map[string]any{"_id": "deep"}}, "deep"},
		{"nested ref key", map[string]any{"ref": "viaRef"}, "viaRef"},
		{"nil", nil, ""},
		{"number", 42.0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CandidateID(tc.ref))
		})
	}
}

func TestResolveNameChain(t *testing.T) {
	roster := []agentTypes.Agent{
		{ID: "64f0aabbccdd112233445566", Name: "Nadia Rahman"},
		{ID: "agent two ", Name: "Omar Faruk"},
		{AltID: "alt-9", Name: "Super Agent"},
	}
	admin := &agentTypes.Current{ID: "u-admin", Name: "Root", Role: "superadmin"}
	user := &agentTypes.Current{ID: "u-1", Name: "Self Service", Role: "agent"}

	t.Run("no id means unassigned", func(t *testing.T) {
		assert.Equal(t, NameUnassigned, ResolveName(nil, roster, "", nil))
		assert.Equal(t, NameUnassigned, ResolveName("undefined", roster, "ignored", nil))
	})

	t.Run("exact roster match", func(t *testing.T) {
		got := ResolveName("64f0aabbccdd112233445566", roster, "", nil)
		assert.Equal(t, "Nadia Rahman", got)
	})

	t.Run("exact match is case-insensitive", func(t *testing.T) {
		got := ResolveName("64F0AABBCCDD112233445566", roster, "", nil)
		assert.Equal(t, "Nadia Rahman", got)
	})

	t.Run("whitespace-insensitive match", func(t *testing.T) {
		got := ResolveName("agenttwo", roster, "", nil)
		assert.Equal(t, "Omar Faruk", got)
	})

	t.Run("12-char suffix match", func(t *testing.T) {
		// A truncated export keeping only the tail of the object id.
		got := ResolveName("xxxx112233445566", roster, "", nil)
		assert.Equal(t, "Nadia Rahman", got)
	})

	t.Run("roster name with super is masked", func(t *testing.T) {
		got := ResolveName("alt-9", roster, "", nil)
		assert.Equal(t, NameAdmin, got)
	})

	t.Run("fallback name used when roster misses", func(t *testing.T) {
		got := ResolveName("stranger", roster, "Freelance Farah", nil)
		assert.Equal(t, "Freelance Farah", got)
	})

	t.Run("fallback admin name masked", func(t *testing.T) {
		got := ResolveName("stranger", roster, "System Administrator", nil)
		assert.Equal(t, NameAdmin, got)
	})

	t.Run("current admin user", func(t *testing.T) {
		got := ResolveName("u-admin", roster, "", admin)
		assert.Equal(t, NameAdmin, got)
	})

	t.Run("current plain user keeps own name", func(t *testing.T) {
		got := ResolveName("u-1", roster, "", user)
		assert.Equal(t, "Self Service", got)
	})

	t.Run("nothing matches", func(t *testing.T) {
		got := ResolveName("stranger", roster, "", user)
		assert.Equal(t, NameUnknown, got)
	})
}

// Same inputs always produce the same name regardless of call order.
func TestResolveNameDeterministic(t *testing.T) {
	roster := []agentTypes.Agent{
		{ID: "a1", Name: "First"},
		{ID: "a2", Name: "Second"},
	}
	want := ResolveName("a2", roster, "", nil)
	for i := 0; i < 50; i++ {
		assert.Equal(t, want, ResolveName("a2", roster, "", nil))
	}
}

func TestSuffixTierOnlyAfterFullScan(t *testing.T) {
	// The second entry matches exactly; the first would match on suffix.
	// Exact match must win even though the suffix entry comes earlier.
	roster := []agentTypes.Agent{
		{ID: "prefix-112233445566", Name: "Suffix Sam"},
		{ID: "112233445566", Name: "Exact Eve"},
	}
	assert.Equal(t, "Exact Eve", ResolveName("112233445566", roster, "", nil))
}
