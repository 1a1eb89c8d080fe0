//go:build !js
// +build !js

// Command server serves the browser build: the embedded index.html plus the
// compiled bundle from -static.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

//go:embed index.html
var indexHTML []byte

func newMux(staticDir string, log logging.LeveledLogger) *http.ServeMux {
	mux := http.NewServeMux()
	files := http.FileServer(http.Dir(staticDir))

	// Serve embedded index.html at root path
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		files.ServeHTTP(w, r)
	})

	// Health check
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	staticDir := flag.String("static", ".", "Directory to serve static files from")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	common.LoggerFactory = common.NewLoggerFactory(os.Stderr, common.ParseLogLevel(*level))
	log := common.Logger("server")

	addr := fmt.Sprintf(":%d", *port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(*staticDir, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("bicial server starting on http://localhost%s", addr)
	log.Infof("Serving static files from: %s", *staticDir)

	if err := srv.ListenAndServe(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
