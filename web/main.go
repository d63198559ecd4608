package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-raycaster/pkg/config"
	"github.com/df07/go-raycaster/web/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Configuration error: %v", err)
		os.Exit(1)
	}

	// Parse command line flags
	addr := flag.String("addr", cfg.ServerAddress, "Address to serve on")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*addr, cfg)

	log.Printf("Raycaster Web Server")
	log.Printf("Try http://localhost%s/api/render?scene=sphere", *addr)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
