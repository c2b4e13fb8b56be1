package common

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare hostname gets https", "example.com", "https://example.com", false},
		{"http preserved", "http://example.com", "http://example.com", false},
		{"https preserved", "https://example.com/about", "https://example.com/about", false},
		{"whitespace trimmed", "  example.com  ", "https://example.com", false},
		{"empty rejected", "", "", true},
		{"whitespace only rejected", "   ", "", true},
		{"ftp rejected", "ftp://example.com", "", true},
		{"no tld rejected", "example", "", true},
		{"localhost allowed", "http://localhost:8080", "http://localhost:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTargetURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", DomainOf("https://example.com/about"))
	assert.Equal(t, "example.com", DomainOf("https://www.example.com"))
	assert.Equal(t, "sub.example.com", DomainOf("http://sub.example.com/x?y=1"))
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://example.com/products/")
	require.NoError(t, err)

	tests := []struct {
		href string
		want string
	}{
		{"/about", "https://example.com/about"},
		{"item", "https://example.com/products/item"},
		{"https://other.com/x", "https://other.com/x"},
		{"//cdn.example.com/a.css", "https://cdn.example.com/a.css"},
		{"#section", ""},
		{"javascript:void(0)", ""},
		{"mailto:hi@example.com", ""},
		{"tel:+1234", ""},
		{"data:image/png;base64,AAAA", ""},
		{"", ""},
		{"/page#frag", "https://example.com/page"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.href, base), "href=%q", tt.href)
	}
}

func TestSameHost(t *testing.T) {
	base, err := url.Parse("https://www.example.com")
	require.NoError(t, err)

	assert.True(t, SameHost(base, "https://example.com/about"))
	assert.True(t, SameHost(base, "https://www.example.com/contact"))
	assert.True(t, SameHost(base, "https://WWW.EXAMPLE.COM/x"))
	assert.False(t, SameHost(base, "https://other.com"))
	assert.False(t, SameHost(base, "https://sub.example.com"))
}
