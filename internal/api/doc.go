// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts HTTP requests to the study service and
// maps its errors to status codes without leaking internal details.
package api
