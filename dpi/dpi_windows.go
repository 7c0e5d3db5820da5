package dpi

import (
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"github.com/rs/zerolog"

	"SCapture/logger"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	shcore               = syscall.NewLazyDLL("shcore.dll")
	procMonitorFromPoint = user32.NewProc("MonitorFromPoint")
	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
	procSetDPIAware      = user32.NewProc("SetProcessDPIAware")
	procSetAwarenessCtx  = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetDpiAwareness  = shcore.NewProc("SetProcessDpiAwareness")
)

const (
	monitorDefaultToPrimary = 0x00000001
	mdtEffectiveDPI         = 0

	processPerMonitorDPIAware = 2
	eAccessDenied             = 0x80070005 // マニフェストなどで設定済み
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 は (HANDLE)-4 です。
var contextPerMonitorAwareV2 = ^uintptr(3)

type systemResolver struct {
	log zerolog.Logger
}

// System はマウスカーソル下のモニター（取得できなければプライマリ）の DPI を問い合わせる Resolver を返します。
func System() Resolver {
	return &systemResolver{log: logger.WithComponent("dpi")}
}

// MakeProcessAware はプロセスをモニターごとの DPI 対応にし、設定できたレベルを返します。
// Windows 10 1703 以降は Per-Monitor V2、8.1 以降は Per-Monitor、それより前はシステム DPI 対応です。
// 非対応のままだと GDI の座標が論理座標に仮想化されるため、ウィンドウを作る前に呼び出します。
func MakeProcessAware() Awareness {
	return applyAwareness([]awarenessStep{
		{PerMonitorAwareV2, func() bool {
			if procSetAwarenessCtx.Find() != nil {
				return false
			}
			ok, _, _ := procSetAwarenessCtx.Call(contextPerMonitorAwareV2)
			return ok != 0
		}},
		{PerMonitorAware, func() bool {
			if procSetDpiAwareness.Find() != nil {
				return false
			}
			hr, _, _ := procSetDpiAwareness.Call(processPerMonitorDPIAware)
			return hr == 0 || uint32(hr) == eAccessDenied
		}},
		{SystemAware, func() bool {
			if procSetDPIAware.Find() != nil {
				return false
			}
			ok, _, _ := procSetDPIAware.Call()
			return ok != 0
		}},
	})
}

func (r *systemResolver) Resolve() Scale {
	if s, ok := monitorScale(); ok {
		return s
	}
	if s, ok := screenDCScale(); ok {
		return s
	}
	r.log.Warn().Msg("DPIの取得に失敗したため 100% として扱います")
	return Identity
}

// monitorScale は Windows 8.1 以降の GetDpiForMonitor を使います。
func monitorScale() (Scale, bool) {
	if procMonitorFromPoint.Find() != nil || procGetDpiForMonitor.Find() != nil {
		return Scale{}, false
	}
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		pt = win.POINT{}
	}
	// POINT は値渡しなので 64bit では 1 つの引数に詰める
	packed := uintptr(uint32(pt.X)) | uintptr(uint32(pt.Y))<<32
	var hmon uintptr
	if unsafe.Sizeof(uintptr(0)) == 8 {
		hmon, _, _ = procMonitorFromPoint.Call(packed, monitorDefaultToPrimary)
	} else {
		hmon, _, _ = procMonitorFromPoint.Call(uintptr(pt.X), uintptr(pt.Y), monitorDefaultToPrimary)
	}
	if hmon == 0 {
		return Scale{}, false
	}
	var dpiX, dpiY uint32
	hr, _, _ := procGetDpiForMonitor.Call(hmon, mdtEffectiveDPI,
		uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if hr != 0 || dpiX == 0 || dpiY == 0 {
		return Scale{}, false
	}
	return FromDPI(float64(dpiX), float64(dpiY)), true
}

// screenDCScale は画面 DC の LOGPIXELSX/Y を使います。
func screenDCScale() (Scale, bool) {
	hdc := win.GetDC(0)
	if hdc == 0 {
		return Scale{}, false
	}
	defer win.ReleaseDC(0, hdc)
	dpiX := win.GetDeviceCaps(hdc, win.LOGPIXELSX)
	dpiY := win.GetDeviceCaps(hdc, win.LOGPIXELSY)
	if dpiX <= 0 || dpiY <= 0 {
		return Scale{}, false
	}
	return FromDPI(float64(dpiX), float64(dpiY)), true
}
