// Package web serves the heritage catalog as server-rendered HTML.
//
// This package provides:
//   - Browse, filter and detail views for heritage sites
//   - Create, update and delete forms gated by a login session
//   - Country list and detail views (login required)
//   - JSON health endpoint and Prometheus exposition
//   - Middleware stack (request ID, logging, recovery, metrics, session)
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := web.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Sessions
//
// A successful login sets a signed HS256 token in an HttpOnly, SameSite=Lax
// cookie. Mutating views redirect anonymous visitors to /accounts/login with
// the original path in the next parameter.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. Change events are delivered best effort
// after the database transaction commits; a sink failure never fails the
// request.
package web
