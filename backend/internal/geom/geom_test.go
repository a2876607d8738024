package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// congruent проверяет, что a и b отличаются на целое число периодов 2Pi
func congruent(a, b float32) bool {
	diff := float64(a) - float64(b)
	k := math.Round(diff / (2 * math.Pi))
	return math.Abs(diff-k*2*math.Pi) < 1e-3
}

func sampleAngles() []float32 {
	angles := []float32{
		0, Pi, -Pi, TwoPi, -TwoPi, Pi / 2, -Pi / 2, 3 * Pi, -3 * Pi,
		1e-7, -1e-7, 0.5, -0.5, 7, -7, 100, -100, 1000.25, -1000.25,
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		angles = append(angles, float32((rng.Float64()-0.5)*200))
	}
	return angles
}

func TestRadRangeTwoPi(t *testing.T) {
	for _, a := range sampleAngles() {
		r := RadRangeTwoPi(a)
		if r < 0 || r >= TwoPi {
			t.Fatalf("RadRangeTwoPi(%v) = %v, вне [0, 2Pi)", a, r)
		}
		if !congruent(r, a) {
			t.Fatalf("RadRangeTwoPi(%v) = %v, не сравнимо по модулю 2Pi", a, r)
		}
	}
}

func TestRadRangeTwoPiNegativeCorrection(t *testing.T) {
	got := RadRangeTwoPi(-Pi / 2)
	if !mgl32.FloatEqualThreshold(got, 3*Pi/2, 1e-5) {
		t.Errorf("expected 3Pi/2, got %v", got)
	}
	if got := RadRangeTwoPi(0); got != 0 {
		t.Errorf("expected 0 for 0, got %v", got)
	}
}

func TestRadRangePi(t *testing.T) {
	for _, a := range sampleAngles() {
		r := RadRangePi(a)
		if r <= -Pi || r > Pi {
			t.Fatalf("RadRangePi(%v) = %v, вне (-Pi, Pi]", a, r)
		}
		if !congruent(r, a) {
			t.Fatalf("RadRangePi(%v) = %v, не сравнимо по модулю 2Pi", a, r)
		}
	}
}

func TestRadRangePiReflectsUpperHalf(t *testing.T) {
	got := RadRangePi(3 * Pi / 2)
	if !mgl32.FloatEqualThreshold(got, -Pi/2, 1e-5) {
		t.Errorf("expected -Pi/2, got %v", got)
	}
	if got := RadRangePi(Pi); got != Pi {
		t.Errorf("Pi должно остаться Pi, got %v", got)
	}
}

func TestAngle(t *testing.T) {
	origin := mgl32.Vec2{0, 0}
	if got := Angle(origin, mgl32.Vec2{1, 0}); got != 0 {
		t.Errorf("Angle to +X: expected 0, got %v", got)
	}
	if got := Angle(origin, mgl32.Vec2{0, 1}); got != Pi/2 {
		t.Errorf("Angle to +Y: expected Pi/2, got %v", got)
	}

	a := mgl32.Vec2{1, 2}
	b := mgl32.Vec2{4, -3}
	forward := Angle(a, b)
	backward := Angle(b, a)
	if !congruent(forward-backward, Pi) {
		t.Errorf("Angle(a,b) и Angle(b,a) должны отличаться на Pi: %v, %v", forward, backward)
	}
}

func TestCreateVectorAndGetRelative(t *testing.T) {
	v := CreateVector(Pi/2, 3)
	if !v.ApproxEqualThreshold(mgl32.Vec2{0, 3}, 1e-5) {
		t.Errorf("CreateVector(Pi/2, 3) = %v", v)
	}

	p := GetRelative(mgl32.Vec2{10, 10}, Pi, 5)
	if !p.ApproxEqualThreshold(mgl32.Vec2{5, 10}, 1e-5) {
		t.Errorf("GetRelative = %v, expected (5, 10)", p)
	}

	if m := Magnitude(mgl32.Vec2{3, 4}); m != 5 {
		t.Errorf("Magnitude((3,4)) = %v", m)
	}
	if d := Distance(mgl32.Vec2{1, 1}, mgl32.Vec2{4, 5}); d != 5 {
		t.Errorf("Distance = %v", d)
	}
}

func TestLineIntersectsCircle(t *testing.T) {
	center := mgl32.Vec2{0, 0}

	tests := []struct {
		name       string
		start, end mgl32.Vec2
		radius     float32
		want       bool
	}{
		{"проходит через центр", mgl32.Vec2{-10, 0}, mgl32.Vec2{10, 0}, 1, true},
		{"касание внутри радиуса", mgl32.Vec2{-10, 0.9}, mgl32.Vec2{10, 0.9}, 1, true},
		{"прямая мимо", mgl32.Vec2{-10, 1.5}, mgl32.Vec2{10, 1.5}, 1, false},
		{"ближайшая точка за концом отрезка", mgl32.Vec2{2, 0.5}, mgl32.Vec2{10, 0.5}, 1, false},
		{"ближайшая точка перед началом", mgl32.Vec2{-10, 0.5}, mgl32.Vec2{-2, 0.5}, 1, false},
		{"конец внутри круга", mgl32.Vec2{5, 5}, mgl32.Vec2{0.3, 0.3}, 1, true},
		{"начало внутри круга", mgl32.Vec2{0.2, 0}, mgl32.Vec2{8, 8}, 1, true},
		{"начало в центре", mgl32.Vec2{0, 0}, mgl32.Vec2{8, 8}, 1, true},
		{"диагональ мимо", mgl32.Vec2{3, -10}, mgl32.Vec2{13, 10}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineIntersectsCircle(tt.start, tt.end, center, tt.radius); got != tt.want {
				t.Errorf("LineIntersectsCircle(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestLineIntersectsCircleZeroLength(t *testing.T) {
	center := mgl32.Vec2{5, 5}
	inside := mgl32.Vec2{5.5, 5}
	outside := mgl32.Vec2{7, 5}

	if !LineIntersectsCircle(inside, inside, center, 1) {
		t.Error("точка внутри круга должна пересекаться")
	}
	if LineIntersectsCircle(outside, outside, center, 1) {
		t.Error("точка вне круга не должна пересекаться")
	}
}

func TestLineIntersectsRectangleFastReject(t *testing.T) {
	rect := Rect{Left: 10, Right: 20, Bottom: 10, Top: 20}

	// Отрезок целиком левее прямоугольника
	if LineIntersectsRectangle(mgl32.Vec2{0, 12}, mgl32.Vec2{5, 18}, rect) {
		t.Error("отрезок левее прямоугольника не должен пересекаться")
	}
	// Отрезок целиком ниже
	if LineIntersectsRectangle(mgl32.Vec2{12, 0}, mgl32.Vec2{18, 5}, rect) {
		t.Error("отрезок ниже прямоугольника не должен пересекаться")
	}
}

func TestLineIntersectsRectangle(t *testing.T) {
	rect := Rect{Left: 10, Right: 20, Bottom: 10, Top: 20}

	tests := []struct {
		name       string
		start, end mgl32.Vec2
		want       bool
	}{
		{"горизонталь через центр", mgl32.Vec2{0, 15}, mgl32.Vec2{30, 15}, true},
		{"диагональ через прямоугольник", mgl32.Vec2{0, 0}, mgl32.Vec2{30, 30}, true},
		{"диагональ проходит над углом", mgl32.Vec2{0, 15}, mgl32.Vec2{15, 30}, false},
		{"диагональ проходит под углом", mgl32.Vec2{15, 0}, mgl32.Vec2{30, 15}, false},
		{"отрезок внутри", mgl32.Vec2{12, 12}, mgl32.Vec2{18, 14}, true},
		{"вертикаль, начало внутри по Y", mgl32.Vec2{15, 15}, mgl32.Vec2{15, 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineIntersectsRectangle(tt.start, tt.end, rect); got != tt.want {
				t.Errorf("LineIntersectsRectangle(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// Вертикальный отрезок считается с нулевым наклоном: пересечение, начинающееся
// ниже прямоугольника, не обнаруживается.
func TestLineIntersectsRectangleVerticalApproximation(t *testing.T) {
	rect := Rect{Left: 10, Right: 20, Bottom: 10, Top: 20}
	if LineIntersectsRectangle(mgl32.Vec2{15, 0}, mgl32.Vec2{15, 30}, rect) {
		t.Error("ожидалось приближенное поведение для вертикального отрезка")
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(mgl32.Vec2{10, 10}, 4, 2)
	want := Rect{Left: 8, Right: 12, Bottom: 9, Top: 11}
	if r != want {
		t.Errorf("RectAround = %+v, want %+v", r, want)
	}
	if !r.Contains(mgl32.Vec2{10, 10}) || r.Contains(mgl32.Vec2{13, 10}) {
		t.Error("Contains работает неверно")
	}
}

func TestRandomPointInCircleBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const radius = 50

	for i := 0; i < 10000; i++ {
		p := RandomPointInCircle(rng, radius)
		if Magnitude(p) > radius*(1+1e-5) {
			t.Fatalf("точка %v вне круга радиуса %v", p, radius)
		}
	}
}

func TestRandomPointInCircleUniformArea(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	const (
		radius  = 1
		samples = 40000
		rings   = 4
	)

	// Кольца равной площади: границы sqrt(k/rings)
	var counts [rings]int
	for i := 0; i < samples; i++ {
		d := float64(Magnitude(RandomPointInCircle(rng, radius)))
		ring := int(d * d * rings)
		if ring >= rings {
			ring = rings - 1
		}
		counts[ring]++
	}

	expected := float64(samples) / rings
	for i, c := range counts {
		if math.Abs(float64(c)-expected) > expected*0.05 {
			t.Errorf("кольцо %d: %d точек, ожидалось около %.0f (%v)", i, c, expected, counts)
		}
	}
}

func TestUnitRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		u := Unit(rng)
		if u < 0 || u >= 1 {
			t.Fatalf("Unit = %v вне [0, 1)", u)
		}
	}
}
