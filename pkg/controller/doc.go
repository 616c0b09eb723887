// Package controller contains the HTTP middlewares and helper handlers of the
// status server that runs alongside a scan.
//
//   - WithLogger attaches a request-scoped logger and request ID and writes an access log.
//   - WithRecover turns handler panics into 500 answers.
//   - PprofMux exposes net/http/pprof.
package controller
