package main

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/geom"
)

type recordingSpawner struct {
	mu     sync.Mutex
	points []mgl32.Vec2
	err    error
}

func (s *recordingSpawner) SpawnFood(ctx context.Context, x, y float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.points = append(s.points, mgl32.Vec2{x, y})
	return nil
}

func newTestBot(pattern string, spawner Spawner) *Bot {
	return NewBot("test", pattern, spawner, rand.New(rand.NewPCG(1, 1)), log.New(io.Discard, "", 0))
}

func TestBot_PatternsStayInZone(t *testing.T) {
	for _, pattern := range []string{PatternRandom, PatternCircle, PatternLinear} {
		t.Run(pattern, func(t *testing.T) {
			bot := newTestBot(pattern, &recordingSpawner{})
			for i := 0; i < 100; i++ {
				p := bot.NextPoint(time.Duration(i) * 100 * time.Millisecond)
				if d := geom.Distance(p, bot.Center); d > bot.Radius+1e-3 {
					t.Fatalf("точка %v вне зоны: расстояние %f", p, d)
				}
			}
		})
	}
}

func TestBot_CirclePattern(t *testing.T) {
	bot := newTestBot(PatternCircle, &recordingSpawner{})
	p := bot.NextPoint(0)
	want := bot.Center.Add(mgl32.Vec2{bot.Radius, 0})
	if !p.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("NextPoint(0) = %v, want %v", p, want)
	}
}

func TestBot_Run(t *testing.T) {
	spawner := &recordingSpawner{}
	bot := newTestBot(PatternRandom, spawner)
	bot.CommandRate = 5 * time.Millisecond
	bot.Duration = 100 * time.Millisecond

	if err := bot.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	spawner.mu.Lock()
	sent := len(spawner.points)
	spawner.mu.Unlock()
	if sent == 0 || bot.Stats.CommandsSent != sent {
		t.Errorf("sent = %d, stats = %d", sent, bot.Stats.CommandsSent)
	}
}

func TestBot_RunCountsErrors(t *testing.T) {
	bot := newTestBot(PatternLinear, &recordingSpawner{err: errors.New("unavailable")})
	bot.CommandRate = 5 * time.Millisecond
	bot.Duration = 50 * time.Millisecond

	if err := bot.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bot.Stats.Errors == 0 || bot.Stats.CommandsSent != 0 {
		t.Errorf("stats = %d отправлено, %d ошибок", bot.Stats.CommandsSent, bot.Stats.Errors)
	}
}

func TestBot_InvalidRate(t *testing.T) {
	bot := newTestBot(PatternRandom, &recordingSpawner{})
	bot.CommandRate = 0
	if err := bot.Run(context.Background()); err == nil {
		t.Error("ожидалась ошибка для нулевой частоты")
	}
}
