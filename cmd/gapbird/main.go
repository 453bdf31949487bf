package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gapbird/config"
)

func main() {
	configPath := flag.String("config", "", "YAML file laid over the built-in tuning.")
	watch := flag.Bool("watch", false, "Reload -config when it changes; new values apply to the next round.")
	debug := flag.Bool("debug", false, "Show the ImGui debug overlay.")
	seed := flag.Uint64("seed", 0, "Obstacle layout seed. Zero keeps the configured seed.")
	flag.Parse()

	tuning, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	opts := []Option{WithSeed(*seed), WithDebug(*debug)}
	if *watch {
		if *configPath == "" {
			log.Fatal("-watch needs -config")
		}
		w, err := config.Watch(*configPath)
		if err != nil {
			log.Fatalf("watch %s: %v", *configPath, err)
		}
		defer w.Close()
		opts = append(opts, WithWatcher(w))
		log.Printf("watching %s", *configPath)
	}

	g := NewGame(tuning, opts...)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
	log.Printf("bye: %d rounds, best score %d", g.rounds, g.best)
}
