// make_backdrop writes the world backdrop PNG for a config: the configured
// source art scaled to the world size, or the generated checkerboard.
package main

import (
	"flag"
	"os"

	"github.com/1siamBot/fitview/engine/assets"
	"github.com/1siamBot/fitview/engine/config"
	"github.com/1siamBot/fitview/engine/logging"
)

func main() {
	configPath := flag.String("config", "fitview.yaml", "path to the YAML config")
	src := flag.String("src", "", "source PNG, overrides scene.backdrop")
	out := flag.String("out", "assets/backdrop.png", "output PNG")
	flag.Parse()

	log := logging.WithComponent("make_backdrop")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	path := cfg.Scene.Backdrop
	if *src != "" {
		path = *src
	}

	img, err := assets.Backdrop(path, cfg.Camera.WorldWidth, cfg.Camera.WorldHeight, cfg.Scene.CellSize)
	if err != nil {
		log.Error("build backdrop", "src", path, "err", err)
		os.Exit(1)
	}
	if err := assets.SavePNG(*out, img); err != nil {
		log.Error("write backdrop", "out", *out, "err", err)
		os.Exit(1)
	}
	b := img.Bounds()
	log.Info("backdrop written", "out", *out, "src", path, "w", b.Dx(), "h", b.Dy())
}
