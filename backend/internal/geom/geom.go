package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Константы углов в радианах
const (
	Pi    = float32(math.Pi)
	TwoPi = float32(2 * math.Pi)
)

// Rand источник равномерных случайных чисел (например, *rand.Rand из math/rand/v2)
type Rand interface {
	Uint32() uint32
}

// Rect прямоугольник, выровненный по осям, в мировых координатах. Bottom <= Top.
type Rect struct {
	Left, Right float32
	Bottom, Top float32
}

// RectAround строит прямоугольник заданного размера с центром в точке
func RectAround(center mgl32.Vec2, width, height float32) Rect {
	return Rect{
		Left:   center.X() - width/2,
		Right:  center.X() + width/2,
		Bottom: center.Y() - height/2,
		Top:    center.Y() + height/2,
	}
}

// Contains проверяет, лежит ли точка внутри прямоугольника (границы включены)
func (r Rect) Contains(p mgl32.Vec2) bool {
	return p.X() >= r.Left && p.X() <= r.Right && p.Y() >= r.Bottom && p.Y() <= r.Top
}

// CreateVector создает вектор заданной длины, направленный под углом angle
func CreateVector(angle, magnitude float32) mgl32.Vec2 {
	a := float64(angle)
	return mgl32.Vec2{float32(math.Cos(a)) * magnitude, float32(math.Sin(a)) * magnitude}
}

// GetRelative возвращает точку на расстоянии distance от origin в направлении angle
func GetRelative(origin mgl32.Vec2, angle, distance float32) mgl32.Vec2 {
	return origin.Add(CreateVector(angle, distance))
}

// Magnitude возвращает евклидову длину вектора
func Magnitude(v mgl32.Vec2) float32 {
	x, y := float64(v.X()), float64(v.Y())
	return float32(math.Sqrt(x*x + y*y))
}

// Distance возвращает расстояние между двумя точками
func Distance(a, b mgl32.Vec2) float32 {
	return Magnitude(b.Sub(a))
}

// Angle возвращает угол направления от p1 к p2 в диапазоне (-Pi, Pi].
// Функция несимметрична: Angle(a, b) и Angle(b, a) отличаются на Pi.
func Angle(p1, p2 mgl32.Vec2) float32 {
	return float32(math.Atan2(float64(p2.Y()-p1.Y()), float64(p2.X()-p1.X())))
}

// RadRangeTwoPi приводит угол к эквивалентному значению в [0, 2Pi)
func RadRangeTwoPi(angle float32) float32 {
	mod := math.Mod(float64(angle), 2*math.Pi)
	// Остаток лежит в (-2Pi, 2Pi), одной коррекции достаточно
	if mod < 0 {
		mod += 2 * math.Pi
	}

	r := float32(mod)
	// После округления до float32 значение может совпасть с 2Pi
	if r >= TwoPi {
		r = 0
	}
	return r
}

// RadRangePi приводит угол к эквивалентному значению в (-Pi, Pi]
func RadRangePi(angle float32) float32 {
	r := RadRangeTwoPi(angle)
	if r > Pi {
		r -= TwoPi
	}
	return r
}

// LineIntersectsRectangle проверяет пересечение отрезка с прямоугольником.
//
// Для вертикального отрезка (dX == 0) наклон принимается равным нулю. Это
// приближение: вертикальный отрезок, пересекающий прямоугольник, но начинающийся
// выше или ниже него, будет отклонен.
//
// Ось Y направлена вверх: прямоугольник отклоняется, если он целиком над прямой
// (Bottom выше обеих точек) или целиком под ней (Top ниже обеих точек).
func LineIntersectsRectangle(start, end mgl32.Vec2, rect Rect) bool {
	xMin, xMax := minMax(start.X(), end.X())
	if xMax < rect.Left || xMin > rect.Right { // прямоугольник левее или правее
		return false
	}

	yMin, yMax := minMax(start.Y(), end.Y())
	if yMax < rect.Bottom || yMin > rect.Top { // прямоугольник выше или ниже
		return false
	}

	// Y - y0 = m * (X - x0)
	dY := start.Y() - end.Y()
	dX := start.X() - end.X()
	var m float32
	if dX != 0 {
		m = dY / dX
	}

	yAtRectLeft := m*(rect.Left-start.X()) + start.Y()
	yAtRectRight := m*(rect.Right-start.X()) + start.Y()

	if rect.Bottom > yAtRectLeft && rect.Bottom > yAtRectRight { // прямоугольник над линией
		return false
	}
	if rect.Top < yAtRectLeft && rect.Top < yAtRectRight { // прямоугольник под линией
		return false
	}

	return true
}

// LineIntersectsCircle проверяет, проходит ли отрезок на расстоянии не больше radius от центра круга.
// Ближайшая точка ищется проекцией центра на отрезок с ограничением концами отрезка.
func LineIntersectsCircle(start, end, center mgl32.Vec2, radius float32) bool {
	lineLength := float64(Distance(start, end))
	startToCircle := float64(Distance(start, center))
	endToCircle := float64(Distance(center, end))

	if lineLength == 0 {
		return startToCircle <= float64(radius)
	}
	if startToCircle == 0 {
		return radius >= 0
	}

	// Теорема косинусов: cos(A) = (AC^2 + AB^2 - CB^2) / (2 * AC * AB)
	cosA := (startToCircle*startToCircle + lineLength*lineLength - endToCircle*endToCircle) /
		(2 * startToCircle * lineLength)
	cosA = math.Max(-1, math.Min(1, cosA))
	angle := math.Acos(cosA)

	projection := startToCircle * math.Cos(angle)
	projection = math.Max(0, math.Min(lineLength, projection))

	ux := float64(end.X()-start.X()) / lineLength
	uy := float64(end.Y()-start.Y()) / lineLength
	px := float64(start.X()) + projection*ux
	py := float64(start.Y()) + projection*uy

	dx := px - float64(center.X())
	dy := py - float64(center.Y())
	return math.Sqrt(dx*dx+dy*dy) <= float64(radius)
}

// RandomPointInCircle возвращает случайную точку внутри круга с равномерной плотностью по площади
func RandomPointInCircle(rng Rand, radius float32) mgl32.Vec2 {
	r := math.Sqrt(Unit(rng)) * float64(radius)
	theta := Unit(rng) * 2 * math.Pi
	return mgl32.Vec2{float32(r * math.Cos(theta)), float32(r * math.Sin(theta))}
}

// Unit нормализует следующее значение источника в [0, 1)
func Unit(rng Rand) float64 {
	return float64(rng.Uint32()) / (1 << 32)
}

func minMax(a, b float32) (float32, float32) {
	if a > b {
		return b, a
	}
	return a, b
}
