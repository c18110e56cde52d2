//go:build windows

package main

import (
	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"pop-translate/src/logutil"
)

// enableDPIAwareness sets per-monitor DPI awareness so window rectangles and
// cursor positions share physical pixel coordinates.
func enableDPIAwareness() {
	log := logutil.Named("dpi")
	const processPerMonitorDPIAware = 2

	setProcessDpiAwareness := windows.NewLazySystemDLL("Shcore.dll").NewProc("SetProcessDpiAwareness")
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Info("per-monitor DPI awareness enabled")
		} else {
			log.Warn("failed to set per-monitor DPI awareness", zap.Uintptr("hresult", ret))
		}
		return
	}

	log.Debug("SetProcessDpiAwareness not available, trying fallback")
	setProcessDPIAware := windows.NewLazySystemDLL("user32.dll").NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Warn("no DPI awareness API available")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		log.Info("system DPI awareness enabled")
	} else {
		log.Warn("failed to set system DPI awareness")
	}
}
