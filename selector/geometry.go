package selector

import (
	"math"

	"SCapture/capture"
	"SCapture/dpi"
)

// Point はオーバーレイ上の論理座標です。
type Point struct {
	X, Y float64
}

// Rect は論理座標での矩形です。
type Rect struct {
	Left, Top, Width, Height float64
}

// RectFromPoints は 2 点を対角とする矩形を返します。
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Empty は幅か高さが 0 なら true を返します。
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ToPhysical はオーバーレイ内の論理矩形を、画面全体での物理ピクセル範囲に変換します。
// origin はオーバーレイ左上の画面座標（論理）で、先に加えてからスケールを掛けます。
// 端の座標をそれぞれ丸めるので、隣り合う選択の境界がずれません。
func ToPhysical(r Rect, origin Point, s dpi.Scale) capture.Region {
	left := math.Round((origin.X + r.Left) * s.X)
	top := math.Round((origin.Y + r.Top) * s.Y)
	right := math.Round((origin.X + r.Left + r.Width) * s.X)
	bottom := math.Round((origin.Y + r.Top + r.Height) * s.Y)
	return capture.Region{
		X:      int(left),
		Y:      int(top),
		Width:  int(right - left),
		Height: int(bottom - top),
	}
}
