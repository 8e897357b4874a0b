// Package web serves the analyzer's single-page form.
//
// GET / renders the form, the standing input warning, the last error and
// the three report tabs. POST /analyze stores the submitted inputs in the
// caller's session, runs the analysis synchronously and redirects back to
// the page. POST /reset clears the session. GET /api/report returns the
// last report as JSON.
package web
