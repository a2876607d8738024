package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/geom"
)

// Паттерны разбрасывания еды
const (
	PatternRandom = "random"
	PatternCircle = "circle"
	PatternLinear = "linear"
)

// Spawner то, куда бот отправляет еду; реализуется control.Client
type Spawner interface {
	SpawnFood(ctx context.Context, x, y float32) error
}

// Bot периодически подкладывает еду в мир через плоскость управления
type Bot struct {
	ID          string
	Pattern     string
	Center      mgl32.Vec2
	Radius      float32
	Duration    time.Duration
	CommandRate time.Duration
	Stats       BotStats

	spawner Spawner
	rng     geom.Rand
	logger  *log.Logger
}

// BotStats содержит статистику работы бота
type BotStats struct {
	CommandsSent int
	Errors       int
	StartTime    time.Time
	mu           sync.RWMutex
}

// NewBot создает нового бота
func NewBot(id, pattern string, spawner Spawner, rng geom.Rand, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		ID:          id,
		Pattern:     pattern,
		Center:      mgl32.Vec2{400, 400},
		Radius:      300,
		Duration:    30 * time.Second,
		CommandRate: 500 * time.Millisecond,
		Stats:       BotStats{StartTime: time.Now()},
		spawner:     spawner,
		rng:         rng,
		logger:      logger,
	}
}

// NextPoint возвращает следующую точку для еды в зависимости от паттерна
func (b *Bot) NextPoint(elapsed time.Duration) mgl32.Vec2 {
	switch b.Pattern {
	case PatternCircle:
		return b.circlePoint(elapsed)
	case PatternLinear:
		return b.linearPoint(elapsed)
	default:
		return b.Center.Add(geom.RandomPointInCircle(b.rng, b.Radius))
	}
}

// circlePoint точка на окружности, обходимой за ~12.5 секунд
func (b *Bot) circlePoint(elapsed time.Duration) mgl32.Vec2 {
	angle := float32(elapsed.Seconds() * 0.5)
	return geom.GetRelative(b.Center, angle, b.Radius)
}

// linearPoint медленное колебание вдоль горизонтальной оси
func (b *Bot) linearPoint(elapsed time.Duration) mgl32.Vec2 {
	offset := float32(math.Sin(elapsed.Seconds()*0.3)) * b.Radius
	return b.Center.Add(mgl32.Vec2{offset, 0})
}

// Run отправляет еду с частотой CommandRate до истечения Duration или отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	if b.CommandRate <= 0 {
		return fmt.Errorf("неверная частота команд: %v", b.CommandRate)
	}

	ctx, cancel := context.WithTimeout(ctx, b.Duration)
	defer cancel()

	commandTicker := time.NewTicker(b.CommandRate)
	defer commandTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Printf("[Bot %s] Завершение работы", b.ID)
			return nil
		case <-commandTicker.C:
			if err := b.spawnOnce(ctx); err != nil {
				b.logger.Printf("[Bot %s] Ошибка отправки команды: %v", b.ID, err)
			}
		}
	}
}

func (b *Bot) spawnOnce(ctx context.Context) error {
	p := b.NextPoint(time.Since(b.Stats.StartTime))
	if err := b.spawner.SpawnFood(ctx, p.X(), p.Y()); err != nil {
		b.Stats.mu.Lock()
		b.Stats.Errors++
		b.Stats.mu.Unlock()
		return err
	}

	b.Stats.mu.Lock()
	b.Stats.CommandsSent++
	b.Stats.mu.Unlock()

	b.logger.Printf("[Bot %s] Еда в (%.1f, %.1f)", b.ID, p.X(), p.Y())
	return nil
}

// PrintStats выводит статистику бота
func (b *Bot) PrintStats() {
	b.Stats.mu.RLock()
	defer b.Stats.mu.RUnlock()

	duration := time.Since(b.Stats.StartTime)
	b.logger.Printf("[Bot %s] Статистика:", b.ID)
	b.logger.Printf("  Время работы: %v", duration)
	b.logger.Printf("  Команд отправлено: %d", b.Stats.CommandsSent)
	b.logger.Printf("  Ошибок: %d", b.Stats.Errors)
	if b.Stats.CommandsSent > 0 {
		b.logger.Printf("  Частота команд: %.2f команд/сек", float64(b.Stats.CommandsSent)/duration.Seconds())
	}
}
