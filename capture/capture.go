package capture

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/rs/zerolog"

	"SCapture/dpi"
)

// ErrCaptureFailed は OS 側のキャプチャ処理（DC・ビットマップの確保、BitBlt、ピクセル読み出し）の失敗です。
var ErrCaptureFailed = errors.New("capture failed")

// DefaultWindowInset はウィンドウキャプチャ時に各辺から削る物理ピクセル数です。
// ウィンドウ周囲の見えない枠を除くための経験値で、ウィンドウスタイルによっては合いません。
const DefaultWindowInset = 8

// AutoWindowInset を指定すると固定値ではなく OS の枠境界（FrameBounder）を使います。
const AutoWindowInset = -1

// Region は物理ピクセルでのキャプチャ範囲（左上座標と幅・高さ）を表します。
type Region struct {
	X, Y, Width, Height int
}

// Empty は面積が 0 以下なら true を返します。
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inset は各辺を n ピクセルずつ内側に縮めた範囲を返します。
func (r Region) Inset(n int) Region {
	return Region{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Rect は image.Rectangle に変換します。
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// WindowHandle はトップレベルウィンドウのハンドルです（Windows では HWND）。
type WindowHandle uintptr

// Engine は画面の指定範囲を所有権付きの *image.RGBA に複製します。
// Device から得た資源は 1 回の CaptureRegion の中だけで使い、必ず解放します。
type Engine struct {
	device Device
	scale  dpi.Resolver
	inset  int
	log    zerolog.Logger
}

// Option は Engine の設定です。
type Option func(*Engine)

// WithWindowInset は CaptureWindow で各辺から削るピクセル数を指定します。
func WithWindowInset(n int) Option {
	return func(e *Engine) { e.inset = n }
}

// WithLogger はロガーを指定します。
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine は Engine を作成します。
func NewEngine(device Device, scale dpi.Resolver, opts ...Option) *Engine {
	e := &Engine{
		device: device,
		scale:  scale,
		inset:  DefaultWindowInset,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmptyImage は 0x0 の画像を返します。
func EmptyImage() *image.RGBA {
	return image.NewRGBA(image.Rectangle{})
}

// CaptureRegion は物理ピクセルの範囲 r をキャプチャします。
// 幅・高さが 0 以下ならエラーにせず空の画像を返します。
func (e *Engine) CaptureRegion(r Region) (img *image.RGBA, err error) {
	if r.Empty() {
		e.log.Debug().Stringer("region", r).Msg("empty region, nothing to capture")
		return EmptyImage(), nil
	}
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("%w: %v", ErrCaptureFailed, p)
		}
	}()

	desktop, err := e.device.AcquireDesktop()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire desktop: %v", ErrCaptureFailed, err)
	}
	defer release(&err, "desktop", desktop.Release)

	off, err := desktop.NewOffscreen(r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: create offscreen %dx%d: %v", ErrCaptureFailed, r.Width, r.Height, err)
	}
	defer release(&err, "offscreen", off.Release)

	if err := off.CopyFrom(r.X, r.Y); err != nil {
		return nil, fmt.Errorf("%w: blit %v: %v", ErrCaptureFailed, r, err)
	}
	pix, err := off.Image()
	if err != nil {
		return nil, fmt.Errorf("%w: read pixels: %v", ErrCaptureFailed, err)
	}
	if b := pix.Bounds(); b.Dx() != r.Width || b.Dy() != r.Height {
		return nil, fmt.Errorf("%w: got %dx%d pixels for %v", ErrCaptureFailed, b.Dx(), b.Dy(), r)
	}

	e.log.Debug().Stringer("region", r).Msg("captured")
	return pix, nil
}

// CaptureFullScreen はプライマリ画面全体をキャプチャします。
// 論理サイズに現在のスケールを掛けて物理サイズを求めます。
func (e *Engine) CaptureFullScreen() (*image.RGBA, error) {
	s := e.scale.Resolve()
	lw, lh := e.device.PrimaryLogicalSize()
	w := int(math.Round(lw * s.X))
	h := int(math.Round(lh * s.Y))
	e.log.Debug().Float64("scale_x", s.X).Float64("scale_y", s.Y).Int("width", w).Int("height", h).Msg("full screen")
	return e.CaptureRegion(Region{Width: w, Height: h})
}

// CaptureWindow は指定ウィンドウを前面に出してから、その範囲をキャプチャします。
func (e *Engine) CaptureWindow(h WindowHandle) (*image.RGBA, error) {
	rect, err := e.windowRegion(h)
	if err != nil {
		return nil, fmt.Errorf("%w: window bounds: %v", ErrCaptureFailed, err)
	}
	if err := e.device.Foreground(h); err != nil {
		// 前面化に失敗しても、見えている内容でキャプチャは続ける
		e.log.Warn().Err(err).Msg("could not bring window to foreground")
	}
	return e.CaptureRegion(rect)
}

func (e *Engine) windowRegion(h WindowHandle) (Region, error) {
	if e.inset == AutoWindowInset {
		if fb, ok := e.device.(FrameBounder); ok {
			r, err := fb.FrameBounds(h)
			if err == nil {
				return r, nil
			}
			e.log.Debug().Err(err).Msg("frame bounds unavailable, using default inset")
		}
		r, err := e.device.WindowRect(h)
		if err != nil {
			return Region{}, err
		}
		return r.Inset(DefaultWindowInset), nil
	}
	r, err := e.device.WindowRect(h)
	if err != nil {
		return Region{}, err
	}
	return r.Inset(e.inset), nil
}

// release は解放関数を呼び、まだエラーがなければ解放時のエラーを返り値に反映します。
func release(err *error, what string, fn func() error) {
	if rerr := fn(); rerr != nil && *err == nil {
		*err = fmt.Errorf("%w: release %s: %v", ErrCaptureFailed, what, rerr)
	}
}
