// Package api talks to the tracker backend's JSON endpoints.
//
// Every endpoint answers with the same envelope:
//
//	{"status": "success", "message": "...", "data": ..., "next": "/url/"}
//
// Client sends GET requests and form POSTs carrying the CSRF token, and turns
// non-2xx answers into *RequestError. Banner converts either outcome into the
// dismissible alert shown above a page.
package api
