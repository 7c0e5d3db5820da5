package output

import "golang.org/x/sys/windows"

// DesktopDir はユーザーのデスクトップフォルダ（FOLDERID_Desktop）を返します。
func DesktopDir() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Desktop, windows.KF_FLAG_DEFAULT)
}
