package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/v1/tasks":                   "/v1/tasks",
		"/v1/tasks/abc":               "/v1/tasks/:id",
		"/v1/tasks/abc/completed":     "/v1/tasks/:id/completed",
		"/v1/tasks/abc/extra":         "/v1/tasks/abc/extra",
		"/v1/tasks/stream":            "/v1/tasks/stream",
		"/v1/tasks?completed=true":    "/v1/tasks",
		"/v1/auth/login":              "/v1/auth/login",
		"/v1/tasks/abc?completed=on":  "/v1/tasks/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
