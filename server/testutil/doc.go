// Package testutil serves a server.Server over httptest and issues JSON
// requests against it.
//
//	ts := testutil.NewServer(t, srv)
//	resp := ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk"}, "")
//	resp.Decode(t, &body)
package testutil
