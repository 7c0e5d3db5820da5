//go:build !windows

package window

// List は Windows 以外では空です。
func List() []Info {
	return nil
}
