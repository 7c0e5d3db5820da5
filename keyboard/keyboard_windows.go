package keyboard

import (
	"fmt"

	"github.com/dacapoday/sendinput"
)

var modifierCodes = map[string]sendinput.KeyCode{
	"CTRL":  sendinput.KEY_LCONTROL,
	"ALT":   sendinput.KEY_LMENU,
	"SHIFT": sendinput.KEY_LSHIFT,
	"WIN":   sendinput.KEY_LWIN,
}

// Send はキー操作（例: "Alt", "Ctrl+C"）を 1 回送信します。
// 修飾キーを押し、メインキーを押して離し、修飾キーを逆順に離します。
func Send(keyOperation string) error {
	c, err := Parse(keyOperation)
	if err != nil {
		return err
	}
	var mods []sendinput.KeyCode
	for _, m := range c.Modifiers {
		mods = append(mods, modifierCodes[m])
	}
	for i, m := range mods {
		if err := sendinput.SendKeyboardInput(m, true); err != nil {
			releaseModifiers(mods[:i])
			return err
		}
	}
	defer releaseModifiers(mods)

	if c.Main == "" {
		return nil
	}
	main := mainKeyCode(c.Main)
	if main == 0 {
		return fmt.Errorf("unknown key %q", c.Main)
	}
	if err := sendinput.SendKeyboardInput(main, true); err != nil {
		return err
	}
	return sendinput.SendKeyboardInput(main, false)
}

func mainKeyCode(name string) sendinput.KeyCode {
	if k := sendinput.Key(name); k != 0 {
		return k
	}
	if len(name) == 1 {
		// A-Z と 0-9 は仮想キーコードが文字コードと同じ
		if ch := name[0]; (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return sendinput.KeyCode(ch)
		}
	}
	return 0
}

func releaseModifiers(modifiers []sendinput.KeyCode) {
	for i := len(modifiers) - 1; i >= 0; i-- {
		_ = sendinput.SendKeyboardInput(modifiers[i], false)
	}
}
