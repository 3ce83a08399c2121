// Package http contains the HTTP handlers for the normalization and
// analysis API. Handlers depend on service interfaces, return chi routers
// from their Routes methods and delegate failures to the shared RFC 7807
// error handler.
package http
