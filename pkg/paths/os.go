package paths

import (
	"runtime"
)

// Kernel names as reported by uname -s
const (
	OSDarwin = "Darwin"
	OSLinux  = "Linux"
)

// DetectOS returns the kernel name of the running system in uname -s form
func DetectOS() string {
	switch runtime.GOOS {
	case "darwin":
		return OSDarwin
	case "linux":
		return OSLinux
	default:
		return runtime.GOOS
	}
}
