// Package engine binds forms and file inputs to API endpoints.
//
// A bound landmark runs one pipeline per event: capture the values, post
// them, and write exactly one terminal banner. Submit and Upload return an
// Outcome describing what happened so endpoint-specific continuations can run
// as plain sequential code; the OnSuccess hook of a descriptor is that
// continuation when the engine owns the event handler.
//
// Pipelines are never cancelled, coalesced, or retried. Two submissions of the
// same form are two independent requests, and the response that settles last
// owns the banner board.
package engine
