package main

import (
	"log"

	"photoblog"
)

func main() {
	app := photoblog.New(photoblog.ConfigFromEnv())
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatalf("photoblog: %v", err)
	}
}
