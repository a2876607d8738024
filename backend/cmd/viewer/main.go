package main

import (
	"log"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"gnn-sim/backend/internal/config"
	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/render"
	"gnn-sim/backend/internal/world"
)

func main() {
	logger := log.Default()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatalf("[Viewer] Ошибка конфигурации: %v", err)
	}
	config.Set(cfg)

	res, err := content.Load(content.DefaultAtlas(cfg.CreatureTextureSize, cfg.FoodTextureSize))
	if err != nil {
		logger.Fatalf("[Viewer] Ошибка загрузки ресурсов: %v", err)
	}

	w, err := world.NewWorld(cfg.Tuning, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)), logger)
	if err != nil {
		logger.Fatalf("[Viewer] Ошибка создания мира: %v", err)
	}
	if err := w.Initialize(res); err != nil {
		logger.Fatalf("[Viewer] Ошибка инициализации мира: %v", err)
	}

	game := NewGame(w, render.IdentityViewport(), cfg.TPS)
	game.paused = cfg.Paused

	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle("gnn-sim")
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatalf("[Viewer] %v", err)
	}
}
