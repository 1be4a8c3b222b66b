// Command server exposes the dupefinder core over a small JSON API. It is
// a convenience surface, not part of the core library — the core makes no
// promise of a wire protocol — and imports pkg/dupefinder the same way any
// other caller would.
package main

import (
	"flag"
	"log"
	"strings"
)

var (
	port           int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	config := &ServerConfig{
		Port:           port,
		AllowedOrigins: origins,
	}

	server := NewServer(config)
	if err := server.Start(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
