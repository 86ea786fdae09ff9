// Package playground serves an HTTP inspector for a routekit kernel backed
// by an in-memory history.
//
// The server owns the kernel for its lifetime: New initializes it from a
// config.Config, instantiates the configured routers and redirectors, and
// Close tears everything down. All kernel access is serialized.
//
// Endpoints:
//
//	GET  /api/location   current snapshot
//	POST /api/navigate   {"href", "hash", "replace", "preserveQuery", "state"}
//	POST /api/goto       {"href", "replace", "preserveQuery"}
//	POST /api/back
//	POST /api/forward
//	POST /api/go         {"delta"}
//	GET  /api/href       ?path=...&hash=...&preserveQuery=...&preserveHash=true
//	GET  /api/routers    router hierarchy and route status
//	GET  /ws             live snapshot stream
//	GET  /metrics        Prometheus metrics
package playground
