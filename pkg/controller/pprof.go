package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux returns a ServeMux serving net/http/pprof at its root. Mount it
// with http.StripPrefix("/debug/pprof", ...).
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)

	return mux
}
