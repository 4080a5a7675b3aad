// Package middleware provides stock cross-cutting middleware for the
// mediator: request/notification logging, struct validation, Prometheus
// metrics, token-bucket rate limiting, and circuit breaking.
package middleware
