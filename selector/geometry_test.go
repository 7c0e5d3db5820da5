package selector

import (
	"testing"

	"SCapture/capture"
	"SCapture/dpi"
)

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want Rect
	}{
		{"down-right", Point{100, 100}, Point{300, 250}, Rect{100, 100, 200, 150}},
		{"up-left", Point{300, 250}, Point{100, 100}, Rect{100, 100, 200, 150}},
		{"down-left", Point{300, 100}, Point{100, 250}, Rect{100, 100, 200, 150}},
		{"same point", Point{5, 5}, Point{5, 5}, Rect{5, 5, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectFromPoints(tt.a, tt.b); got != tt.want {
				t.Errorf("RectFromPoints = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToPhysical(t *testing.T) {
	tests := []struct {
		name   string
		r      Rect
		origin Point
		scale  dpi.Scale
		want   capture.Region
	}{
		{"identity", Rect{100, 100, 200, 150}, Point{}, dpi.Identity, capture.Region{X: 100, Y: 100, Width: 200, Height: 150}},
		{"150%", Rect{100, 100, 200, 150}, Point{}, dpi.Scale{X: 1.5, Y: 1.5}, capture.Region{X: 150, Y: 150, Width: 300, Height: 225}},
		{"offset overlay", Rect{10, 20, 30, 40}, Point{-1280, 0}, dpi.Identity, capture.Region{X: -1270, Y: 20, Width: 30, Height: 40}},
		{"offset before scaling", Rect{10, 10, 20, 20}, Point{100, 50}, dpi.Scale{X: 2, Y: 2}, capture.Region{X: 220, Y: 120, Width: 40, Height: 40}},
		{"fractional edges", Rect{0.5, 0.5, 10, 10}, Point{}, dpi.Scale{X: 1.25, Y: 1.25}, capture.Region{X: 1, Y: 1, Width: 12, Height: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPhysical(tt.r, tt.origin, tt.scale); got != tt.want {
				t.Errorf("ToPhysical = %+v, want %+v", got, tt.want)
			}
		})
	}
}
