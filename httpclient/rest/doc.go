// Package rest provides a JSON-focused client built on httpclient.
//
// It keeps httpclient's auth, TLS, retry and error classification and adds
// typed helpers:
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "http://localhost:11434"})
//	resp, err := rest.Post[json.RawMessage](ctx, client, "/api/chat", body)
package rest
