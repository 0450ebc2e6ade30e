// Package errs defines the error shapes returned to API clients.
//
// Every handler error ends up in the global error handler, which turns it
// into an HTTPError so clients always see the same JSON structure:
//
//	{ "code": "BAD_REQUEST", "message": "...", "status": 400, "override": false, "errors": [...], "action": null }
package errs
