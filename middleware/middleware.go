// Package middleware provides cross-cutting wrappers for baton pipelines:
// retry on transient failures, structured tracing, and content redaction.
// Every middleware preserves the pipeline signature and passes through any
// result it does not specifically alter, so wrappers compose in whatever
// order the caller picks.
package middleware
