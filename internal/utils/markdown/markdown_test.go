package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertDescription(t *testing.T) {
	html := `<div>
		<h3>Requirements</h3>
		<script>tracker()</script>
		<style>.x{color:red}</style>
		<p>Valid <b>drivers</b> license required.</p>
		<ul><li>3 years experience</li><li>Own transport</li></ul>
	</div>`

	out := ConvertDescription(html)

	assert.Contains(t, out, "Requirements")
	assert.Contains(t, out, "**drivers**")
	assert.Contains(t, out, "3 years experience")
	assert.NotContains(t, out, "tracker()")
	assert.NotContains(t, out, "color:red")
}

func TestConvertDescriptionEmpty(t *testing.T) {
	assert.Equal(t, "", ConvertDescription(""))
	assert.Equal(t, "", ConvertDescription("<script>only()</script>"))
}

func TestClean(t *testing.T) {
	in := "line one\\\nline two\r\n\n\n\n\nline three\n"
	out := Clean(in)

	assert.Equal(t, "line one\nline two\n\nline three", out)
	assert.False(t, strings.Contains(out, "\\\n"))
	assert.Equal(t, "", Clean(""))
}
