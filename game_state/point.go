package game_state

import "fmt"

// Point is a grid cell. Coordinates are signed so a head that steps past the
// zero edge stays observable until the collision phase removes it.
type Point struct {
	X int32
	Y int32
}

func NewPoint(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Add returns the neighbouring cell in the given direction.
func (p Point) Add(dir Direction) Point {
	switch dir {
	case Up:
		return Point{X: p.X, Y: p.Y - 1}
	case Down:
		return Point{X: p.X, Y: p.Y + 1}
	case Left:
		return Point{X: p.X - 1, Y: p.Y}
	case Right:
		return Point{X: p.X + 1, Y: p.Y}
	}
	panic(fmt.Sprintf("game_state: invalid direction %d", dir))
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is one of the four cardinal moves. The numeric values are the
// variant indexes used on the wire.
type Direction uint32

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d <= Right
}

// Opposite is an involution: d.Opposite().Opposite() == d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint32(d))
}

// Color is the RGB tag clients paint a snake with.
type Color struct {
	R, G, B uint8
}

// RGB packs the color as 0xRRGGBB.
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFromRGB unpacks a 0xRRGGBB value.
func ColorFromRGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}
