// Package http implements the HTTP transport of oni-auth.
//
// It wires the chi router, the session, anti-forgery and admin middleware
// and the request handlers of the login, registration and password reset
// flows. Request tracing, access logging, Prometheus metrics, CORS and
// response compression are applied to every route before requests reach
// the service layer.
package http
