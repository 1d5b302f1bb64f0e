package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/claims-registry/pkg/app"
	"github.com/chainsafe/claims-registry/pkg/app/registry"
	"github.com/chainsafe/claims-registry/pkg/config"
)

var configPath = flag.String("config", "config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = registry.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Claims registry failed: %v\n", err)
		os.Exit(1)
	}
}
