// Package api implements the HTTP REST API of the SQLite Web Manager.
//
// This package provides:
//   - Table listing, schema inspection and table create/drop endpoints
//   - Row insert and delete endpoints
//   - A SQL console (single statement) and a modify console (script)
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - TLS support
//
// # Responses
//
// Every response, including unknown routes and wrong methods, is an
// envelope:
//
//	{"success": true,  "data": {...}, "error": null}
//	{"success": false, "data": null,  "error": "Invalid table name provided."}
//
// Invalid input and missing tables are 400 with the message verbatim;
// engine failures (syntax errors, constraint violations) are 500 with the
// engine's text.
//
// # Security
//
// There is no authentication. The consoles execute arbitrary SQL, so the
// server must only be reachable by trusted operators.
package api
