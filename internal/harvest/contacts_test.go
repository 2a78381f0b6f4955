package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanContacts(t *testing.T) {
	text := `Apply to jobs@abccorp.co.za or call +27 11 555 1234.
More info at https://abccorp.co.za/careers. Duplicate mail: jobs@abccorp.co.za
Alternative line: 011 555 1234`

	c := ScanContacts(text)

	assert.Equal(t, []string{"jobs@abccorp.co.za"}, c.Emails)
	assert.Equal(t, []string{"+27 11 555 1234", "011 555 1234"}, c.Phones)
	assert.Len(t, c.Websites, 1)
	assert.Contains(t, c.Websites[0], "https://abccorp.co.za/careers")
}

func TestScanContactsEmptyText(t *testing.T) {
	c := ScanContacts("no contact details here")
	assert.Nil(t, c.Emails)
	assert.Nil(t, c.Phones)
	assert.Nil(t, c.Websites)
}

func TestScanContactsPhoneVariants(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"+27 82 123 4567", true},
		{"082-123-4567", true},
		{"0821234567", true},
		{"12345", false},
	}
	for _, c := range cases {
		got := ScanContacts(c.text)
		if c.want {
			assert.NotEmpty(t, got.Phones, "expected phone match in %q", c.text)
		} else {
			assert.Empty(t, got.Phones, "unexpected phone match in %q", c.text)
		}
	}
}
