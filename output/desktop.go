//go:build !windows

package output

import (
	"os"
	"path/filepath"
)

// DesktopDir はユーザーのデスクトップフォルダを返します。
// XDG_DESKTOP_DIR が無ければ ~/Desktop、それも無ければホームです。
func DesktopDir() (string, error) {
	if d := os.Getenv("XDG_DESKTOP_DIR"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	d := filepath.Join(home, "Desktop")
	if st, err := os.Stat(d); err == nil && st.IsDir() {
		return d, nil
	}
	return home, nil
}
