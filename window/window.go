package window

import (
	"strings"

	"SCapture/capture"
)

// Info は表示中のトップレベルウィンドウです。
type Info struct {
	Handle capture.WindowHandle
	Title  string
}

// Find はタイトルが完全一致する最初のウィンドウを返します。
// 完全一致が無ければ、大文字小文字を無視した部分一致が 1 件だけのときにそれを返します。
func Find(windows []Info, title string) (Info, bool) {
	for _, w := range windows {
		if w.Title == title {
			return w, true
		}
	}
	var found []Info
	needle := strings.ToLower(title)
	for _, w := range windows {
		if needle != "" && strings.Contains(strings.ToLower(w.Title), needle) {
			found = append(found, w)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return Info{}, false
}

// FindByTitle は表示中のウィンドウから Find で探します。
func FindByTitle(title string) (Info, bool) {
	return Find(List(), title)
}
