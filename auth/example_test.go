package auth_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/statuscheck/auth"
)

func ExampleGate() {
	keys := auth.NewAPIKeyAuthenticator("", auth.APIKey{
		ID:        "nagios",
		Hash:      auth.HashAPIKey("monitor-key"),
		Principal: "nagios",
		Roles:     []string{"monitor"},
	})
	gate := auth.NewGate(keys, auth.NewRBACAuthorizer(auth.DefaultPolicy()))

	h := gate.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Println("served", auth.PrincipalFromContext(r.Context()))
	}))

	for _, key := range []string{"monitor-key", "wrong", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		fmt.Println(rec.Code)
	}
	// Output:
	// served nagios
	// 200
	// 401
	// 401
}

func ExampleParsePolicy() {
	policy, _ := auth.ParsePolicy([]byte(`
roles:
  monitor:
    capabilities: ["report/*"]
`))
	fmt.Println(policy.Roles["monitor"].Capabilities)
	// Output:
	// [report/*]
}
