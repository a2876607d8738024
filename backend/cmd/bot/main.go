package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/transport/control"
)

// clientSpawner адаптирует control.Client к Spawner
type clientSpawner struct {
	client *control.Client
}

func (s clientSpawner) SpawnFood(ctx context.Context, x, y float32) error {
	_, err := s.client.SpawnFood(ctx, x, y)
	return err
}

func main() {
	var (
		botID       = flag.String("id", "bot1", "Идентификатор бота")
		addr        = flag.String("addr", "localhost:9090", "Адрес gRPC сервера управления")
		pattern     = flag.String("pattern", PatternRandom, "Паттерн разбрасывания еды (random, circle, linear)")
		duration    = flag.Duration("duration", 30*time.Second, "Длительность работы бота")
		commandRate = flag.Duration("rate", 500*time.Millisecond, "Частота отправки команд")
		centerX     = flag.Float64("x", 400, "Центр зоны по X")
		centerY     = flag.Float64("y", 400, "Центр зоны по Y")
		radius      = flag.Float64("radius", 300, "Радиус зоны")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Зерно генератора")
	)
	flag.Parse()

	client, err := control.Dial(*addr)
	if err != nil {
		log.Fatalf("[Bot %s] Ошибка подключения: %v", *botID, err)
	}
	defer client.Close()

	bot := NewBot(*botID, *pattern, clientSpawner{client: client}, rand.New(rand.NewPCG(*seed, *seed)), log.Default())
	bot.Center = mgl32.Vec2{float32(*centerX), float32(*centerY)}
	bot.Radius = float32(*radius)
	bot.Duration = *duration
	bot.CommandRate = *commandRate

	// Обработка сигналов для корректного завершения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		log.Printf("[Bot %s] Ошибка: %v", bot.ID, err)
		bot.PrintStats()
		os.Exit(1)
	}

	bot.PrintStats()
}
