// Package httpclient provides the configurable HTTP client that carries
// chat-completion calls: bearer/API-key auth, TLS, retry, rate limiting and
// status-code classification.
//
// The rest subpackage adds typed JSON helpers on top of it.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Timeout: 120 * time.Second,
//	    Auth:    httpclient.BearerAuth(key.Reveal()),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/chat/completions",
//	    Body:   payload,
//	})
//
// # Error Classification
//
// Non-2xx responses come back as *Error with a Code (auth, rate_limit,
// server, ...). IsRetryable reports whether a retry could help and is the
// default RetryIf used by DefaultRetryConfig.
package httpclient
