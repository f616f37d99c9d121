// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause

// nes65 serves the m6502 instruction core to remote clients. Each client gets
// its own CPU and internal RAM; the rest of the address space is the client's
// to answer through bus events.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
)

func main() {
	tcpAddr := flag.String("tcp", "127.0.0.1:6502", "TCP listen address, empty to disable")
	wsAddr := flag.String("ws", "127.0.0.1:6503", "HTTP(WebSocket) listen address, empty to disable")
	wwwDir := flag.String("www", "www", "directory served over HTTP next to the WebSocket endpoint")
	logLevel := flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	logJson := flag.Bool("log-json", false, "log in JSON")
	flag.Parse()

	logger, err := newLogger(os.Stderr, *logLevel, *logJson)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nes65: %v\n", err)
		os.Exit(2)
	}
	if *tcpAddr == "" && *wsAddr == "" {
		logger.Fatal("Nothing to serve: both -tcp and -ws are empty")
	}

	errCh := make(chan error, 2)
	if *tcpAddr != "" {
		listener, err := net.Listen("tcp", *tcpAddr)
		if err != nil {
			logger.WithError(err).Fatal("Failed to listen to connection")
		}
		go func() { errCh <- serveTcp(logger, listener) }()
	}
	if *wsAddr != "" {
		go func() { errCh <- startWsServer(logger, *wsAddr, *wwwDir) }()
	}
	logger.WithError(<-errCh).Fatal("Server stopped")
}
