// Package api hosts the HTTP server and middleware. Routes:
//   - GET /healthz and /readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - POST on the configured events path for the Slack Events API.
package api
