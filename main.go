package main

import (
	"runtime"

	"SCapture/commands"
	"SCapture/dpi"
)

func main() {
	// Windows GUI はメインスレッドで実行する必要がある
	runtime.LockOSThread()

	// 物理ピクセルで座標を受け取るため、ウィンドウ作成前に DPI 対応を宣言する
	dpi.MakeProcessAware()

	commands.Execute()
}
