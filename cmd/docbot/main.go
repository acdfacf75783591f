package main

import (
	"github.com/joho/godotenv"

	"docbot/internal/cli"
)

func main() {
	// Secrets (bot token, API key) may live in a local .env file.
	_ = godotenv.Load()

	cli.Execute()
}
