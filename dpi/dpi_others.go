//go:build !windows

package dpi

// System は Windows 以外では常に 100% を返す Resolver です。
// kbinani/screenshot のバックエンドは物理ピクセルの画面境界をそのまま返すため、換算は不要です。
func System() Resolver {
	return Fixed(Identity)
}

// MakeProcessAware は Windows 以外では何もしません。
func MakeProcessAware() Awareness { return Unaware }
