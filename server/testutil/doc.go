// Package testutil runs a server.Server behind httptest for tests.
//
//	srv := testutil.NewComponent()
//	srv.GinEngine().GET("/hello", func(c *gin.Context) { c.String(200, "world") })
//	roottestutil.T(t).Setup(srv)
//
//	resp, _ := http.Get(srv.BaseURL() + "/hello")
//
// The component serves the same middleware stack as production, so
// request IDs, CORS, body limits and telemetry apply to every request.
package testutil
