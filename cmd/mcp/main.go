package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/secureai/docshield-console/internal/bootstrap"
	"github.com/secureai/docshield-console/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	app := bootstrap.New(cfg, "mcp")

	app.Logger.Info("mcp server starting", "name", cfg.MCPServerName, "backend", cfg.BackendURL)
	if err := app.MCPServer().ServeStdio(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
