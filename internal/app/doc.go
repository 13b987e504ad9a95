// Package app assembles the sales query server: configuration, logging,
// the cached dataset service, middleware and the chi router, plus the
// HTTP server lifecycle with graceful shutdown.
package app
