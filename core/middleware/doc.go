// Package middleware groups the HTTP middleware of the control plane.
//
//   - auth: API key validation protecting every route except the documentation.
//   - rayid: assigns a ray id to every request, stores it in the Fiber locals and echoes
//     it in the X-Ray-ID response header for tracing.
//
// Register rayid first so that every log line, including auth rejections, carries it.
package middleware
