package analysis

import "github.com/kbukum/startup-analyzer/httpclient"

// FailureHint turns a completion failure somewhere in err's chain into a
// sentence a user can act on. It returns "" when the cause is not a
// recognised transport failure.
func FailureHint(err error) string {
	switch {
	case err == nil:
		return ""
	case httpclient.IsAuth(err):
		return "Groq rejected the API key. Check the key and submit again."
	case httpclient.IsRateLimit(err):
		return "The Groq rate limit was reached. Wait a minute before retrying."
	case httpclient.IsTimeout(err):
		return "The completion service did not answer in time."
	case httpclient.IsConnection(err):
		return "The completion service could not be reached."
	case httpclient.IsServerError(err):
		return "The completion service reported an internal error."
	}
	return ""
}
