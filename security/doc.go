// Package security holds the secret-handling and transport-security
// primitives shared by the analyzer's outbound clients.
//
// # Credentials
//
// A Credential wraps the per-session LLM API key. It never renders its
// value through fmt, JSON or zerolog, so it can travel through request
// structs and log fields without leaking:
//
//	key := security.NewCredential(form.APIKey)
//	log.Info("starting analysis", map[string]interface{}{"api_key": key})
//	// => "api_key":"gsk_****"
//
// # TLS Configuration
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/corp-ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
