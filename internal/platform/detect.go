package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string
}

// NewDetector creates a new platform detector for the running process.
func NewDetector() Detector {
	return &RealDetector{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect performs platform detection and returns platform information.
//
// The machine name comes from gopsutil (uname -m on Unix). On Windows it is
// respelled the way PROCESSOR_ARCHITECTURE names it (AMD64, ARM64, x86).
// If the lookup fails, it is derived from GOARCH so a target can still be
// built. On Linux,
// distro detection failures are tolerated and leave the distro fields empty.
// A cancelled context is always a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      d.goos,
		ArchRaw: d.goarch,
		Arch:    normalizeArch(d.goarch),
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}

	machine, err := host.KernelArch()
	if err != nil || normalizeMachine(d.goos, machine) == "" {
		machine = machineFromGOARCH(d.goos, d.goarch)
	}
	info.Machine = normalizeMachine(d.goos, machine)

	if d.goos == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}
