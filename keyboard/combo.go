package keyboard

import (
	"fmt"
	"strings"
)

// Combo はキー操作（例: "Ctrl+Shift+S"）を修飾キーとメインキーに分けたものです。
// 修飾キーだけの操作（"Alt" など）では Main が空になります。
type Combo struct {
	Modifiers []string
	Main      string
}

var modifierNames = map[string]string{
	"CTRL":    "CTRL",
	"CONTROL": "CTRL",
	"ALT":     "ALT",
	"MENU":    "ALT",
	"SHIFT":   "SHIFT",
	"WIN":     "WIN",
}

// Parse はキー操作文字列を Combo に変換します。
func Parse(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Combo{}, fmt.Errorf("empty key operation")
	}
	var c Combo
	parts := strings.Split(s, "+")
	for i, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			return Combo{}, fmt.Errorf("invalid key operation %q", s)
		}
		if m, ok := modifierNames[p]; ok {
			c.Modifiers = append(c.Modifiers, m)
			continue
		}
		if i != len(parts)-1 {
			return Combo{}, fmt.Errorf("%q is not a modifier in %q", p, s)
		}
		c.Main = p
	}
	return c, nil
}
