package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickIdentityFromPools(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := PickIdentity()
		assert.Contains(t, userAgents, id.UserAgent)
		assert.Contains(t, viewports, id.Viewport)
	}
}

func TestIdentityPoolsAreSane(t *testing.T) {
	seen := map[string]bool{}
	for _, ua := range userAgents {
		assert.True(t, strings.HasPrefix(ua, "Mozilla/5.0"), "unexpected user agent %q", ua)
		assert.False(t, seen[ua], "duplicate user agent %q", ua)
		seen[ua] = true
	}
	for _, vp := range viewports {
		assert.GreaterOrEqual(t, vp.Width, 1280)
		assert.GreaterOrEqual(t, vp.Height, 720)
	}
}
