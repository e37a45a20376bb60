// Package server holds the HTTP control plane configuration.
//
// The serve command builds a Fiber application from this configuration: the listen port,
// the API key protecting every route except the documentation, and the graceful
// shutdown timeout.
package server
