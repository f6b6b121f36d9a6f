package solvext

import (
	"os"
	"runtime"
)

// Platform constants
const (
	platformWindows = "windows"
	platformDarwin  = "darwin"
	platformLinux   = "linux"
)

// EnvCUDAPath names the environment variable holding the CUDA toolkit
// root. It is mandatory for GPU variants on Windows; elsewhere the
// conventional /usr/local/cuda layout is assumed.
const EnvCUDAPath = "CUDA_PATH"

// Platform captures the host facts that variant assembly depends on.
//
// Assembly itself never reads the environment; callers capture a
// Platform once (normally with DetectPlatform) and pass it in, which
// keeps AssembleSpecs deterministic and testable on any host.
type Platform struct {
	OS       string // GOOS-style operating system name
	CUDAPath string // CUDA toolkit root from the environment, may be empty
}

// DetectPlatform captures the running host's platform facts.
func DetectPlatform() Platform {
	return Platform{
		OS:       runtime.GOOS,
		CUDAPath: os.Getenv(EnvCUDAPath),
	}
}
