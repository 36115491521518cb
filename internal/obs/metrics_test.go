package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                  "/",
		"/metrics":          "/metrics",
		"/dives":            "/dives",
		"/dives/42":         "/dives/:id",
		"/dives/42/extra":   "/dives/42/extra",
		"/auth/login":       "/auth/login",
		"/dives?limit=10":   "/dives",
		"/api/conditions":   "/api/conditions",
		"/dives/7?fields=1": "/dives/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
