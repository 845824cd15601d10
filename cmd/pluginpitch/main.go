package main

import (
	"log"

	"github.com/ravesdeleste/PluginPitch/internal/app"
	"github.com/ravesdeleste/PluginPitch/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
