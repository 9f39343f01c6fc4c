// Package pypi fetches package metadata from the PyPI JSON API.
//
// The client is the only networked component of reqcheck. Responses are
// cached through a pluggable backend and transient failures are retried
// with exponential backoff. Lookup failures are expected and recoverable:
// callers build mapping configuration from whatever metadata is available
// and proceed on defaults when the registry is unreachable.
package pypi
