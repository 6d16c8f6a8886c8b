//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	dwmwaUseImmersiveDarkMode = 20
	dwmwaCaptionColor         = 35
)

func dwmSet(hwnd unsafe.Pointer, attr uintptr, value uint32) {
	procDwmSetWindowAttribute.Call(uintptr(hwnd), attr, uintptr(unsafe.Pointer(&value)), unsafe.Sizeof(value))
}

// styleTitleBar gives the window a dark caption to match the scene.
func styleTitleBar(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	dwmSet(unsafe.Pointer(hwnd), dwmwaUseImmersiveDarkMode, 1)
	dwmSet(unsafe.Pointer(hwnd), dwmwaCaptionColor, 0x00202020)
}
