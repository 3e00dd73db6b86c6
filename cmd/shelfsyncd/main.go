package main

import (
	"log"

	"github.com/shelfsync/shelfsync/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ shelfsyncd failed to start: %v", err)
	}
}
