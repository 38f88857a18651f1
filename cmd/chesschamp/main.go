package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appcfg "github.com/Zer0will/chesschamp/internal/config"
	"github.com/Zer0will/chesschamp/internal/engine"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"github.com/Zer0will/chesschamp/internal/ui"
)

func main() {
	_ = godotenv.Load()
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if cfg.PresetFile != "" {
		if err := engine.LoadPresetOverrides(cfg.PresetFile); err != nil {
			log.Fatalf("preset overrides error: %v", err)
		}
		obslog.L().Info("preset overrides loaded", zap.String("file", cfg.PresetFile))
	}

	skill := flag.Int("skill", -1, "difficulty 0-4, skips the setup menu when --color is also set")
	colorVal := flag.Int("color", -1, "0 to play white, 1 to play black")
	flag.Parse()

	var app *ui.App
	if *skill >= 0 && *colorVal >= 0 {
		if *skill > engine.MaxSkill {
			log.Fatalf("--skill must be between %d and %d", engine.MinSkill, engine.MaxSkill)
		}
		if *colorVal > 1 {
			log.Fatalf("--color must be 0 (white) or 1 (black)")
		}
		app = ui.NewAppPlaying(cfg.StockfishPath, *skill, *colorVal)
	} else {
		app = ui.NewApp(cfg.StockfishPath)
	}
	defer app.Shutdown()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Chess Game")
	if err := ebiten.RunGame(app); err != nil {
		log.Fatalf("game error: %v", err)
	}
}
