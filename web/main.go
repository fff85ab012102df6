package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/publish"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatalf("Error loading environment: %v", err)
	}
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		log.Fatalf("Error reading environment: %v", err)
	}

	port := flag.Int("port", cfg.Port, "Port to serve on")
	flag.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket for published renders (empty disables publishing)")
	flag.StringVar(&cfg.S3.Prefix, "s3-prefix", cfg.S3.Prefix, "Key prefix for published renders")
	flag.Parse()

	// A nil publisher keeps the server from offering uploads
	var publisher server.Publisher
	if cfg.S3.Enabled() {
		s3Publisher, err := publish.NewS3Publisher(cfg.S3, renderer.NewDefaultLogger())
		if err != nil {
			log.Fatalf("Error configuring S3 publisher: %v", err)
		}
		publisher = s3Publisher
		log.Printf("Publishing renders to bucket %s", cfg.S3.Bucket)
	}

	webServer := server.NewServer(*port, publisher)

	log.Printf("Sphere Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
