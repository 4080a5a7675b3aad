// Package mediator implements in-process request/response dispatch,
// notification pub/sub, and a composable middleware pipeline.
//
// Requests (commands and queries) are dispatched with Send to exactly one
// handler; stream requests produce a lazy sequence of items via SendStream;
// notifications are broadcast with Publish to any number of registered
// handlers and manually subscribed listeners. Handlers are resolved by the
// exact runtime type of the dispatched value.
//
// Middleware registered with Use and UseNotification wraps dispatch with
// cross-cutting behavior. Middleware may be unconstrained or constrained to
// an interface via AppliesTo, ordered with WithOrder, and conditionally
// skipped per value with When. The stock middleware in the middleware
// subpackage covers logging, validation, Prometheus metrics, rate limiting,
// and circuit breaking; the statistics subpackage tracks per-type execution
// aggregates.
//
// The package has no transport or persistence concerns; it is a pure
// in-memory call-routing library.
package mediator
