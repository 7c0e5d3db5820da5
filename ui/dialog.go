//go:build windows

package ui

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/lxn/walk"
	"github.com/lxn/win"

	"SCapture/config"
)

var formatNames = []string{"PNG", "JPEG", "BMP", "PDF"}

// RunSettingsDialog は出力設定ダイアログを表示し、「保存」が押されたとき編集後の設定を返します。
// キャンセル時は ok が false です。
func RunSettingsDialog(cfg config.Config) (config.Config, bool) {
	var dlg *walk.Dialog
	var formatCombo *walk.ComboBox
	var folderEdit, editorEdit *walk.LineEdit
	var qualityEdit, insetEdit, delayEdit *walk.NumberEdit
	var clipboardCheck, editorCheck *walk.CheckBox

	dlg, err := walk.NewDialog(nil)
	if err != nil {
		showError(fmt.Sprintf("ダイアログの作成に失敗しました: %v", err))
		return cfg, false
	}
	defer dlg.Dispose()
	dlg.SetTitle("SCapture - 設定")
	dlg.SetLayout(walk.NewVBoxLayout())

	// 保存形式
	formatComp, _ := walk.NewComposite(dlg)
	formatComp.SetLayout(walk.NewHBoxLayout())
	if l, err := walk.NewLabel(formatComp); err == nil {
		l.SetText("保存形式:")
	}
	formatCombo, _ = walk.NewComboBox(formatComp)
	formatCombo.SetModel(formatNames)
	formatCombo.SetCurrentIndex(0)
	for i, n := range formatNames {
		if strings.EqualFold(n, cfg.Output.Format) || (n == "JPEG" && strings.EqualFold(cfg.Output.Format, "jpg")) {
			formatCombo.SetCurrentIndex(i)
		}
	}
	if l, err := walk.NewLabel(formatComp); err == nil {
		l.SetText("JPEG品質:")
	}
	qualityEdit, _ = walk.NewNumberEdit(formatComp)
	qualityEdit.SetRange(1, 100)
	qualityEdit.SetValue(float64(cfg.Output.JPEGQuality))

	// 保存フォルダ
	folderComp, _ := walk.NewComposite(dlg)
	folderComp.SetLayout(walk.NewHBoxLayout())
	if l, err := walk.NewLabel(folderComp); err == nil {
		l.SetText("保存先:")
	}
	folderEdit, _ = walk.NewLineEdit(folderComp)
	folderEdit.SetText(cfg.Output.Dir)
	folderEdit.SetToolTipText("空欄ならデスクトップに保存します")
	browseBtn, _ := walk.NewPushButton(folderComp)
	browseBtn.SetText("参照...")
	browseBtn.Clicked().Attach(func() {
		if path, err := browseForFolder(dlg); err == nil && path != "" {
			folderEdit.SetText(path)
		}
	})

	// 出力先
	destComp, _ := walk.NewComposite(dlg)
	destComp.SetLayout(walk.NewHBoxLayout())
	clipboardCheck, _ = walk.NewCheckBox(destComp)
	clipboardCheck.SetText("常にクリップボードにコピー")
	clipboardCheck.SetChecked(cfg.Output.AlwaysCopyToClipboard)
	editorCheck, _ = walk.NewCheckBox(destComp)
	editorCheck.SetText("保存せずにエディタで開く")
	editorCheck.SetChecked(cfg.Output.AlwaysOpenToEditor)

	editorComp, _ := walk.NewComposite(dlg)
	editorComp.SetLayout(walk.NewHBoxLayout())
	if l, err := walk.NewLabel(editorComp); err == nil {
		l.SetText("エディタ:")
	}
	editorEdit, _ = walk.NewLineEdit(editorComp)
	editorEdit.SetText(cfg.Output.EditorCommand)

	// キャプチャの調整値
	tuneComp, _ := walk.NewComposite(dlg)
	tuneComp.SetLayout(walk.NewHBoxLayout())
	if l, err := walk.NewLabel(tuneComp); err == nil {
		l.SetText("ウィンドウ枠の除去(px, -1=自動):")
	}
	insetEdit, _ = walk.NewNumberEdit(tuneComp)
	insetEdit.SetRange(-1, 64)
	insetEdit.SetValue(float64(cfg.Capture.WindowInset))
	if l, err := walk.NewLabel(tuneComp); err == nil {
		l.SetText("キャプチャ前の待機(ms):")
	}
	delayEdit, _ = walk.NewNumberEdit(tuneComp)
	delayEdit.SetRange(0, 5000)
	delayEdit.SetValue(float64(cfg.Capture.SettleDelay / time.Millisecond))

	// ボタン
	btnComp, _ := walk.NewComposite(dlg)
	btnComp.SetLayout(walk.NewHBoxLayout())
	_, _ = walk.NewHSpacer(btnComp)
	saveBtn, _ := walk.NewPushButton(btnComp)
	saveBtn.SetText("保存")
	saveBtn.Clicked().Attach(func() {
		next := cfg
		next.Output.Format = strings.ToLower(formatCombo.Text())
		next.Output.JPEGQuality = int(qualityEdit.Value())
		next.Output.Dir = strings.TrimSpace(folderEdit.Text())
		next.Output.AlwaysCopyToClipboard = clipboardCheck.Checked()
		next.Output.AlwaysOpenToEditor = editorCheck.Checked()
		next.Output.EditorCommand = strings.TrimSpace(editorEdit.Text())
		next.Capture.WindowInset = int(insetEdit.Value())
		next.Capture.SettleDelay = time.Duration(delayEdit.Value()) * time.Millisecond
		// ダイアログを閉じる前に検証する
		if err := next.Validate(); err != nil {
			showError(err.Error())
			return
		}
		cfg = next
		dlg.Accept()
	})
	cancelBtn, _ := walk.NewPushButton(btnComp)
	cancelBtn.SetText("キャンセル")
	cancelBtn.Clicked().Attach(func() {
		dlg.Cancel()
	})

	dlg.SetDefaultButton(saveBtn)
	dlg.SetCancelButton(cancelBtn)

	if dlg.Run() != walk.DlgCmdOK {
		return cfg, false
	}
	return cfg, true
}

// showError はエラーメッセージをメッセージボックスで表示します。
func showError(msg string) {
	title, _ := syscall.UTF16PtrFromString("SCapture")
	text, _ := syscall.UTF16PtrFromString(msg)
	win.MessageBox(0, text, title, win.MB_OK|win.MB_ICONERROR|win.MB_TOPMOST)
}

// ShowInfo は情報メッセージをメッセージボックスで表示します。
func ShowInfo(title, msg string) {
	t, _ := syscall.UTF16PtrFromString(title)
	m, _ := syscall.UTF16PtrFromString(msg)
	win.MessageBox(0, m, t, win.MB_OK|win.MB_ICONINFORMATION)
}
