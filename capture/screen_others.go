//go:build !windows

package capture

import (
	"errors"
	"image"
	"image/draw"

	"github.com/kbinani/screenshot"

	"SCapture/dpi"
)

// ErrUnsupported はこのプラットフォームでは使えない操作です。
var ErrUnsupported = errors.New("not supported on this platform")

// ScreenshotDevice は kbinani/screenshot でキャプチャする Device です。
// X11 などでは画面境界がすでに物理ピクセルなので、論理サイズもそのまま返します。
type ScreenshotDevice struct{}

// NewDevice はこのプラットフォームの Device を返します。
func NewDevice(dpi.Resolver) Device {
	return ScreenshotDevice{}
}

func (ScreenshotDevice) AcquireDesktop() (Desktop, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, errors.New("no active display")
	}
	return screenDesktop{}, nil
}

func (ScreenshotDevice) PrimaryLogicalSize() (float64, float64) {
	b := screenshot.GetDisplayBounds(0)
	return float64(b.Dx()), float64(b.Dy())
}

func (ScreenshotDevice) WindowRect(WindowHandle) (Region, error) {
	return Region{}, ErrUnsupported
}

func (ScreenshotDevice) Foreground(WindowHandle) error {
	return ErrUnsupported
}

type screenDesktop struct{}

func (screenDesktop) NewOffscreen(width, height int) (Offscreen, error) {
	return &screenOffscreen{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (screenDesktop) Release() error { return nil }

type screenOffscreen struct {
	img *image.RGBA
}

func (o *screenOffscreen) CopyFrom(x, y int) error {
	b := o.img.Bounds()
	shot, err := screenshot.Capture(x, y, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	draw.Draw(o.img, b, shot, shot.Bounds().Min, draw.Src)
	return nil
}

func (o *screenOffscreen) Image() (*image.RGBA, error) {
	out := image.NewRGBA(o.img.Bounds())
	copy(out.Pix, o.img.Pix)
	return out, nil
}

func (o *screenOffscreen) Release() error {
	o.img = nil
	return nil
}
