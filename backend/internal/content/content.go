package content

import (
	"errors"
	"fmt"
	"sync"
)

// Логические имена ресурсов
const (
	NameConsolas = "Consolas"
	NameTest     = "test"
	NameCreature = "Creature"
	NameFood     = "Food"
)

// ErrNotFound возвращается, если ресурс с таким именем не зарегистрирован
var ErrNotFound = errors.New("resource not found")

// Texture непрозрачный дескриптор текстуры; ядро читает только имя и размер в пикселях
type Texture interface {
	Name() string
	Size() (width, height int)
}

// Font непрозрачный дескриптор шрифта
type Font interface {
	Name() string
}

// Loader поставщик ресурсов по логическому имени
type Loader interface {
	Texture(name string) (Texture, error)
	Font(name string) (Font, error)
}

// Content набор ресурсов, загружаемых при старте
type Content struct {
	Consolas Font
	Test     Texture
	Creature Texture
	Food     Texture
}

// Load загружает все ресурсы через loader
func Load(loader Loader) (*Content, error) {
	var err error
	c := &Content{}

	if c.Consolas, err = loader.Font(NameConsolas); err != nil {
		return nil, fmt.Errorf("load font %s: %w", NameConsolas, err)
	}

	textures := []struct {
		name string
		dst  *Texture
	}{
		{NameTest, &c.Test},
		{NameCreature, &c.Creature},
		{NameFood, &c.Food},
	}
	for _, tex := range textures {
		if *tex.dst, err = loader.Texture(tex.name); err != nil {
			return nil, fmt.Errorf("load texture %s: %w", tex.name, err)
		}
	}

	return c, nil
}

// Sprite текстура без пиксельных данных, только имя и размер
type Sprite struct {
	name          string
	width, height int
}

// NewSprite создает дескриптор текстуры
func NewSprite(name string, width, height int) *Sprite {
	return &Sprite{name: name, width: width, height: height}
}

// Name возвращает имя текстуры
func (s *Sprite) Name() string { return s.name }

// Size возвращает размер текстуры в пикселях
func (s *Sprite) Size() (int, int) { return s.width, s.height }

type fontHandle string

func (f fontHandle) Name() string { return string(f) }

// Atlas загрузчик для безголового режима: размеры текстур задаются конфигурацией
type Atlas struct {
	mu       sync.RWMutex
	textures map[string]*Sprite
	fonts    map[string]Font
}

// NewAtlas создает пустой атлас
func NewAtlas() *Atlas {
	return &Atlas{
		textures: make(map[string]*Sprite),
		fonts:    make(map[string]Font),
	}
}

// DefaultAtlas атлас со стандартными ресурсами симуляции
func DefaultAtlas(creatureSize, foodSize int) *Atlas {
	a := NewAtlas()
	a.AddTexture(NameTest, 32, 32)
	a.AddTexture(NameCreature, creatureSize, creatureSize)
	a.AddTexture(NameFood, foodSize, foodSize)
	a.AddFont(NameConsolas)
	return a
}

// AddTexture регистрирует текстуру
func (a *Atlas) AddTexture(name string, width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.textures[name] = NewSprite(name, width, height)
}

// AddFont регистрирует шрифт
func (a *Atlas) AddFont(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fonts[name] = fontHandle(name)
}

// Texture возвращает текстуру по имени
func (a *Atlas) Texture(name string) (Texture, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	tex, ok := a.textures[name]
	if !ok {
		return nil, fmt.Errorf("texture %q: %w", name, ErrNotFound)
	}
	return tex, nil
}

// Font возвращает шрифт по имени
func (a *Atlas) Font(name string) (Font, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	f, ok := a.fonts[name]
	if !ok {
		return nil, fmt.Errorf("font %q: %w", name, ErrNotFound)
	}
	return f, nil
}
