package main

import (
	"os"

	"github.com/joho/godotenv"

	"maplint/internal/logging"
)

func main() {
	// .env is optional; MAPLINT_* variables layer under flags and config.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger := logging.New(logging.Config{})
		logger.Error("command failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
