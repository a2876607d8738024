package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"gnn-sim/backend/internal/world"
)

// Имена переменных окружения
const (
	EnvHTTPAddr         = "GNN_HTTP_ADDR"
	EnvGRPCAddr         = "GNN_GRPC_ADDR"
	EnvTPS              = "GNN_TPS"
	EnvSeed             = "GNN_SEED"
	EnvPaused           = "GNN_PAUSED"
	EnvTelemetryEntries = "GNN_TELEMETRY_ENTRIES"
	EnvCreatureTexture  = "GNN_CREATURE_TEXTURE_SIZE"
	EnvFoodTexture      = "GNN_FOOD_TEXTURE_SIZE"

	EnvWorldWidth      = "GNN_WORLD_WIDTH"
	EnvWorldHeight     = "GNN_WORLD_HEIGHT"
	EnvCreatureRadius  = "GNN_CREATURE_RADIUS"
	EnvCreatureSpeed   = "GNN_CREATURE_SPEED"
	EnvCreatureEyes    = "GNN_CREATURE_EYES"
	EnvCreatureSight   = "GNN_CREATURE_SIGHT"
	EnvMetabolism      = "GNN_CREATURE_METABOLISM"
	EnvFoodRadius      = "GNN_FOOD_RADIUS"
	EnvFoodCount       = "GNN_FOOD_COUNT"
	EnvFoodSpawnRadius = "GNN_FOOD_SPAWN_RADIUS"
	EnvFoodRipeHealth  = "GNN_FOOD_RIPE_HEALTH"
)

// Config настройки процесса и параметры симуляции
type Config struct {
	HTTPAddr         string
	GRPCAddr         string
	TPS              int
	Seed             uint64
	Paused           bool
	TelemetryEntries int

	CreatureTextureSize int
	FoodTextureSize     int

	Tuning world.Tuning
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		HTTPAddr:            ":8080",
		GRPCAddr:            ":9090",
		TPS:                 30,
		Seed:                1,
		TelemetryEntries:    1000,
		CreatureTextureSize: 24,
		FoodTextureSize:     12,
		Tuning:              world.DefaultTuning(),
	}
}

var (
	current     = Default()
	configMutex sync.RWMutex
)

// Get возвращает текущую конфигурацию
func Get() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return current
}

// Set устанавливает новую конфигурацию
func Set(cfg Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	current = cfg
}

// Load загружает .env файлы (отсутствующие пропускаются) в окружение процесса
// и строит конфигурацию из переменных окружения
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return Parse(environ())
}

// ReadFile строит конфигурацию только из .env файла, не трогая окружение процесса
func ReadFile(path string) (Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("read env file %s: %w", path, err)
	}
	return Parse(env)
}

// Parse строит конфигурацию из набора переменных; отсутствующие берутся по умолчанию
func Parse(env map[string]string) (Config, error) {
	cfg := Default()
	p := parser{env: env}

	cfg.HTTPAddr = p.String(EnvHTTPAddr, cfg.HTTPAddr)
	cfg.GRPCAddr = p.String(EnvGRPCAddr, cfg.GRPCAddr)
	cfg.TPS = p.Int(EnvTPS, cfg.TPS)
	cfg.Seed = p.Uint64(EnvSeed, cfg.Seed)
	cfg.Paused = p.Bool(EnvPaused, cfg.Paused)
	cfg.TelemetryEntries = p.Int(EnvTelemetryEntries, cfg.TelemetryEntries)
	cfg.CreatureTextureSize = p.Int(EnvCreatureTexture, cfg.CreatureTextureSize)
	cfg.FoodTextureSize = p.Int(EnvFoodTexture, cfg.FoodTextureSize)

	t := &cfg.Tuning
	t.Bounds.Width = p.Float32(EnvWorldWidth, t.Bounds.Width)
	t.Bounds.Height = p.Float32(EnvWorldHeight, t.Bounds.Height)
	t.Creature.Radius = p.Float32(EnvCreatureRadius, t.Creature.Radius)
	t.Creature.Speed = p.Float32(EnvCreatureSpeed, t.Creature.Speed)
	t.Creature.Eyes = p.Int(EnvCreatureEyes, t.Creature.Eyes)
	t.Creature.SightRange = p.Float32(EnvCreatureSight, t.Creature.SightRange)
	t.Creature.Metabolism = p.Float32(EnvMetabolism, t.Creature.Metabolism)
	t.Food.Radius = p.Float32(EnvFoodRadius, t.Food.Radius)
	t.Food.Count = p.Int(EnvFoodCount, t.Food.Count)
	t.Food.SpawnRadius = p.Float32(EnvFoodSpawnRadius, t.Food.SpawnRadius)
	t.Food.RipeHealth = p.Float32(EnvFoodRipeHealth, t.Food.RipeHealth)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет конфигурацию
func (c Config) Validate() error {
	if c.TPS <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvTPS, c.TPS)
	}
	if c.TelemetryEntries <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvTelemetryEntries, c.TelemetryEntries)
	}
	if c.CreatureTextureSize <= 0 || c.FoodTextureSize <= 0 {
		return fmt.Errorf("texture sizes must be positive")
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// parser типизированное чтение переменных с накоплением ошибок
type parser struct {
	env  map[string]string
	errs []error
}

func (p *parser) lookup(key string) (string, bool) {
	v, ok := p.env[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) String(key, def string) string {
	if v, ok := p.lookup(key); ok {
		return v
	}
	return def
}

func (p *parser) Int(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) Uint64(key string, def uint64) uint64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) Float32(key string, def float32) float32 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return float32(f)
}

func (p *parser) Bool(key string, def bool) bool {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}
