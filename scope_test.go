package askcuny_test

import (
	"testing"

	"github.com/askcuny/askcuny"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_InScope(t *testing.T) {
	t.Parallel()

	scope := askcuny.DefaultScope()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"central site", "https://www.cuny.edu/admissions/", true},
		{"college subdomain", "https://hunter.cuny.edu/admissions/", true},
		{"nested subdomain", "https://www.hunter.cuny.edu/nursing/", true},
		{"external rankings host", "https://www.usnews.com/best-colleges/", true},
		{"external statistics host", "https://nces.ed.gov.example.com/", false},
		{"lookalike suffix", "https://cuny.edu.evil.example.com/", false},
		{"lookalike substring", "https://fakecuny.education/", false},
		{"unrelated host", "https://www.wikipedia.org/wiki/CUNY", false},
		{"malformed", "::not a url", false},
		{"relative path", "admissions/apply", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scope.InScope(tt.url))
		})
	}
}

func TestScope_InstitutionVsExternal(t *testing.T) {
	t.Parallel()

	scope := askcuny.DefaultScope()

	assert.True(t, scope.InstitutionHost("https://www.cuny.edu/"))
	assert.False(t, scope.ExternalHost("https://www.cuny.edu/"))

	assert.True(t, scope.ExternalHost("https://www.niche.com/colleges/"))
	assert.False(t, scope.InstitutionHost("https://www.niche.com/colleges/"))
}

func TestScope_HostMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	scope := askcuny.DefaultScope()

	assert.True(t, scope.InScope("https://WWW.CUNY.EDU/Admissions/"))
}

func TestNewScope_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := askcuny.NewScope([]string{`[unclosed`}, nil)
	require.Error(t, err)
	assert.Equal(t, askcuny.EINVALID, askcuny.ErrorCode(err))
}
