package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessToken(t *testing.T) {
	cases := map[string]struct {
		header string
		want   string
		ok     bool
	}{
		"bearer":           {header: "Bearer ya29.abc", want: "ya29.abc", ok: true},
		"case insensitive": {header: "bearer  tok ", want: "tok", ok: true},
		"missing":          {header: "", ok: false},
		"basic":            {header: "Basic dXNlcjpwYXNz", ok: false},
		"no value":         {header: "Bearer", ok: false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var (
				got string
				ok  bool
			)
			h := AccessToken(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got, ok = GetAccessToken(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
