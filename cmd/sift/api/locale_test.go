package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SanteonNL/sift/filters"
)

func TestLocaleNegotiator_Negotiate(t *testing.T) {
	t.Parallel()

	n := NewLocaleNegotiator("en", "nl", "de")

	tests := []struct {
		name   string
		header string
		want   filters.StaticLocale
	}{
		{name: "no header", header: "", want: "en"},
		{name: "exact match", header: "nl", want: "nl"},
		{name: "regional variant", header: "de-CH,de;q=0.9", want: "de"},
		{name: "weighted preference", header: "fr;q=0.9,nl;q=0.8", want: "nl"},
		{name: "unsupported falls back to default", header: "ja", want: "en"},
		{name: "malformed header", header: ";;;", want: "en"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/posts", nil)
			if tt.header != "" {
				r.Header.Set("Accept-Language", tt.header)
			}
			assert.Equal(t, tt.want, n.Negotiate(r))
		})
	}
}
