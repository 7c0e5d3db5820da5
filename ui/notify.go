//go:build windows

package ui

import (
	"github.com/rs/zerolog"

	"SCapture/output"
)

// Notifier は保存結果をユーザーに知らせます。
// 保存失敗はメッセージボックス（閉じるまで戻らない）で、成功はログだけで知らせます。
type Notifier struct {
	Log zerolog.Logger
}

var _ output.Notifier = Notifier{}

func (n Notifier) Info(msg string) {
	n.Log.Info().Msg(msg)
}

func (n Notifier) Error(msg string) {
	showError(msg)
}
