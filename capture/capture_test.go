package capture

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"SCapture/dpi"
)

// fakeDevice は screen の内容を返すテスト用 Device です。取得・解放の回数を数えます。
type fakeDevice struct {
	screen        *image.RGBA
	logicalW      float64
	logicalH      float64
	windows       map[WindowHandle]Region
	frames        map[WindowHandle]Region
	foreground    []WindowHandle
	foregroundErr error
	acquireErr    error
	offscreenErr  error
	blitErr       error
	blitPanic     bool
	acquired      int
	released      int
	offAcquired   int
	offReleased   int
	lastBlitPoint image.Point
}

func newFakeDevice(w, h int) *fakeDevice {
	screen := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(screen.Pix); i += 4 {
		p := i / 4
		screen.Pix[i+0] = uint8(p % w)
		screen.Pix[i+1] = uint8(p / w)
		screen.Pix[i+2] = 0x40
		screen.Pix[i+3] = 0xff
	}
	return &fakeDevice{
		screen:   screen,
		logicalW: float64(w),
		logicalH: float64(h),
		windows:  map[WindowHandle]Region{},
	}
}

func (d *fakeDevice) AcquireDesktop() (Desktop, error) {
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	d.acquired++
	return &fakeDesktop{d: d}, nil
}

func (d *fakeDevice) PrimaryLogicalSize() (float64, float64) { return d.logicalW, d.logicalH }

func (d *fakeDevice) WindowRect(h WindowHandle) (Region, error) {
	r, ok := d.windows[h]
	if !ok {
		return Region{}, errors.New("no such window")
	}
	return r, nil
}

func (d *fakeDevice) Foreground(h WindowHandle) error {
	d.foreground = append(d.foreground, h)
	return d.foregroundErr
}

type fakeDesktop struct{ d *fakeDevice }

func (f *fakeDesktop) NewOffscreen(w, h int) (Offscreen, error) {
	if f.d.offscreenErr != nil {
		return nil, f.d.offscreenErr
	}
	f.d.offAcquired++
	return &fakeOffscreen{d: f.d, img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (f *fakeDesktop) Release() error {
	f.d.released++
	return nil
}

type fakeOffscreen struct {
	d   *fakeDevice
	img *image.RGBA
}

func (o *fakeOffscreen) CopyFrom(x, y int) error {
	if o.d.blitPanic {
		panic("device lost")
	}
	if o.d.blitErr != nil {
		return o.d.blitErr
	}
	o.d.lastBlitPoint = image.Pt(x, y)
	draw.Draw(o.img, o.img.Bounds(), o.d.screen, image.Pt(x, y), draw.Src)
	return nil
}

func (o *fakeOffscreen) Image() (*image.RGBA, error) {
	out := image.NewRGBA(o.img.Bounds())
	copy(out.Pix, o.img.Pix)
	return out, nil
}

func (o *fakeOffscreen) Release() error {
	o.d.offReleased++
	return nil
}

func assertBalanced(t *testing.T, d *fakeDevice) {
	t.Helper()
	if d.acquired != d.released {
		t.Errorf("desktop acquired %d, released %d", d.acquired, d.released)
	}
	if d.offAcquired != d.offReleased {
		t.Errorf("offscreen acquired %d, released %d", d.offAcquired, d.offReleased)
	}
}

func TestCaptureRegionDimensions(t *testing.T) {
	d := newFakeDevice(200, 100)
	e := NewEngine(d, dpi.Fixed(dpi.Identity))

	tests := []Region{
		{X: 0, Y: 0, Width: 200, Height: 100},
		{X: 10, Y: 20, Width: 30, Height: 40},
		{X: 199, Y: 99, Width: 1, Height: 1},
	}
	for _, r := range tests {
		t.Run(r.String(), func(t *testing.T) {
			img, err := e.CaptureRegion(r)
			if err != nil {
				t.Fatalf("CaptureRegion: %v", err)
			}
			if got := img.Bounds().Size(); got != image.Pt(r.Width, r.Height) {
				t.Errorf("size = %v, want %dx%d", got, r.Width, r.Height)
			}
			if got, want := img.RGBAAt(0, 0), d.screen.RGBAAt(r.X, r.Y); got != want {
				t.Errorf("pixel(0,0) = %v, want %v", got, want)
			}
		})
	}
	if d.acquired != len(tests) {
		t.Errorf("acquired %d desktops, want one per capture", d.acquired)
	}
	assertBalanced(t, d)
}

func TestCaptureRegionEmpty(t *testing.T) {
	d := newFakeDevice(10, 10)
	e := NewEngine(d, dpi.Fixed(dpi.Identity))

	for _, r := range []Region{
		{X: 1, Y: 1, Width: 0, Height: 5},
		{X: 1, Y: 1, Width: 5, Height: 0},
		{X: 1, Y: 1, Width: -3, Height: 5},
	} {
		img, err := e.CaptureRegion(r)
		if err != nil {
			t.Fatalf("CaptureRegion(%v): %v", r, err)
		}
		if !img.Bounds().Empty() {
			t.Errorf("CaptureRegion(%v) bounds = %v, want empty", r, img.Bounds())
		}
	}
	if d.acquired != 0 {
		t.Errorf("empty region acquired %d desktops", d.acquired)
	}
}

func TestCaptureRegionFailuresReleaseResources(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *fakeDevice)
	}{
		{"acquire", func(d *fakeDevice) { d.acquireErr = errors.New("out of DCs") }},
		{"offscreen", func(d *fakeDevice) { d.offscreenErr = errors.New("out of memory") }},
		{"blit", func(d *fakeDevice) { d.blitErr = errors.New("BitBlt failed") }},
		{"panic", func(d *fakeDevice) { d.blitPanic = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDevice(10, 10)
			tt.setup(d)
			e := NewEngine(d, dpi.Fixed(dpi.Identity))

			img, err := e.CaptureRegion(Region{Width: 5, Height: 5})
			if !errors.Is(err, ErrCaptureFailed) {
				t.Fatalf("err = %v, want ErrCaptureFailed", err)
			}
			if img != nil {
				t.Errorf("img = %v, want nil on failure", img.Bounds())
			}
			assertBalanced(t, d)
		})
	}
}

func TestCaptureFullScreen(t *testing.T) {
	tests := []struct {
		name  string
		scale dpi.Scale
		want  image.Point
	}{
		{"100%", dpi.Scale{X: 1, Y: 1}, image.Pt(1920, 1080)},
		{"150%", dpi.Scale{X: 1.5, Y: 1.5}, image.Pt(2880, 1620)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDevice(tt.want.X, tt.want.Y)
			d.logicalW, d.logicalH = 1920, 1080
			e := NewEngine(d, dpi.Fixed(tt.scale))

			img, err := e.CaptureFullScreen()
			if err != nil {
				t.Fatalf("CaptureFullScreen: %v", err)
			}
			if got := img.Bounds().Size(); got != tt.want {
				t.Errorf("size = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureFullScreenRoundsPhysicalSize(t *testing.T) {
	// 物理サイズをスケールで割った論理サイズから元の物理サイズに戻す
	s := dpi.Scale{X: 1.75, Y: 1.75}
	d := newFakeDevice(899, 906)
	d.logicalW, d.logicalH = 899/s.X, 906/s.Y
	e := NewEngine(d, dpi.Fixed(s))

	img, err := e.CaptureFullScreen()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds().Size(), image.Pt(899, 906); got != want {
		t.Errorf("size = %v, want %v", got, want)
	}
}

func TestCaptureFullScreenResolvesScaleEachCall(t *testing.T) {
	d := newFakeDevice(2880, 1620)
	d.logicalW, d.logicalH = 1920, 1080
	calls := 0
	e := NewEngine(d, dpi.ResolverFunc(func() dpi.Scale {
		calls++
		if calls == 1 {
			return dpi.Identity
		}
		return dpi.Scale{X: 1.5, Y: 1.5}
	}))

	first, err := e.CaptureFullScreen()
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.CaptureFullScreen()
	if err != nil {
		t.Fatal(err)
	}
	if first.Bounds().Dx() != 1920 || second.Bounds().Dx() != 2880 {
		t.Errorf("widths = %d, %d, want 1920, 2880", first.Bounds().Dx(), second.Bounds().Dx())
	}
}

func TestCaptureWindowInset(t *testing.T) {
	d := newFakeDevice(600, 400)
	d.windows[42] = Region{X: 50, Y: 50, Width: 400, Height: 300}
	e := NewEngine(d, dpi.Fixed(dpi.Identity))

	img, err := e.CaptureWindow(42)
	if err != nil {
		t.Fatalf("CaptureWindow: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(384, 284) {
		t.Errorf("size = %v, want 384x284", got)
	}
	if d.lastBlitPoint != image.Pt(58, 58) {
		t.Errorf("blit origin = %v, want (58,58)", d.lastBlitPoint)
	}
	if len(d.foreground) != 1 || d.foreground[0] != 42 {
		t.Errorf("foreground calls = %v, want [42]", d.foreground)
	}
}

func TestCaptureWindowConfigurableInset(t *testing.T) {
	d := newFakeDevice(600, 400)
	d.windows[7] = Region{X: 50, Y: 50, Width: 400, Height: 300}
	e := NewEngine(d, dpi.Fixed(dpi.Identity), WithWindowInset(0))

	img, err := e.CaptureWindow(7)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(400, 300) {
		t.Errorf("size = %v, want 400x300", got)
	}
}

type frameDevice struct {
	*fakeDevice
}

func (d frameDevice) FrameBounds(h WindowHandle) (Region, error) {
	return d.frames[h], nil
}

func TestCaptureWindowAutoInset(t *testing.T) {
	d := newFakeDevice(600, 400)
	d.windows[7] = Region{X: 50, Y: 50, Width: 400, Height: 300}
	d.frames = map[WindowHandle]Region{7: {X: 57, Y: 50, Width: 386, Height: 293}}
	e := NewEngine(frameDevice{d}, dpi.Fixed(dpi.Identity), WithWindowInset(AutoWindowInset))

	img, err := e.CaptureWindow(7)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(386, 293) {
		t.Errorf("size = %v, want 386x293", got)
	}
	if d.lastBlitPoint != image.Pt(57, 50) {
		t.Errorf("blit origin = %v, want (57,50)", d.lastBlitPoint)
	}
}

func TestCaptureWindowUnknown(t *testing.T) {
	d := newFakeDevice(10, 10)
	e := NewEngine(d, dpi.Fixed(dpi.Identity))
	if _, err := e.CaptureWindow(99); !errors.Is(err, ErrCaptureFailed) {
		t.Errorf("err = %v, want ErrCaptureFailed", err)
	}
	if len(d.foreground) != 0 {
		t.Errorf("foreground called for unknown window")
	}
}

func TestCaptureWindowForegroundFailureIsLogged(t *testing.T) {
	d := newFakeDevice(600, 400)
	d.windows[42] = Region{X: 50, Y: 50, Width: 400, Height: 300}
	d.foregroundErr = errors.New("send Alt: input blocked")
	var buf bytes.Buffer
	e := NewEngine(d, dpi.Fixed(dpi.Identity), WithLogger(zerolog.New(&buf)))

	img, err := e.CaptureWindow(42)
	if err != nil {
		t.Fatalf("CaptureWindow: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(384, 284) {
		t.Errorf("size = %v, want 384x284", got)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "input blocked") {
		t.Errorf("warning not logged: %s", out)
	}
}
