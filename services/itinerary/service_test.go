package itinerary

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	s := &Service{}
	hex24 := regexp.MustCompile(`^[0-9a-f]{24}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.GenerateRequestID()
		assert.Regexp(t, hex24, id)
		assert.False(t, seen[id], "request id collided: %s", id)
		seen[id] = true
	}
}
