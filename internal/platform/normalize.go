package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// sysPlatformMap holds the GOOS values whose Python spelling differs.
var sysPlatformMap = map[string]string{
	"windows": "win32",
	"aix":     "aix",
	"solaris": "sunos5",
}

// normalizeArch converts GOARCH aliases to the Go spelling.
// Unknown values are passed through unchanged.
func normalizeArch(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// windowsMachineMap maps uname-style names to PROCESSOR_ARCHITECTURE.
var windowsMachineMap = map[string]string{
	"x86_64":  "AMD64",
	"amd64":   "AMD64",
	"aarch64": "ARM64",
	"arm64":   "ARM64",
	"i386":    "x86",
	"i686":    "x86",
}

// normalizeMachine trims a kernel machine name. The case is preserved
// because release names use it verbatim.
func normalizeMachine(goos, machine string) string {
	machine = strings.TrimSpace(machine)
	if goos == "windows" {
		if m, ok := windowsMachineMap[strings.ToLower(machine)]; ok {
			return m
		}
	}
	return machine
}

// machineFromGOARCH maps GOARCH to the uname -m spelling for goos.
func machineFromGOARCH(goos, goarch string) string {
	switch goarch {
	case "amd64":
		if goos == "windows" {
			return "AMD64"
		}
		return "x86_64"
	case "arm64":
		if goos == "linux" {
			return "aarch64"
		}
		return "arm64"
	case "386":
		if goos == "windows" {
			return "x86"
		}
		return "i686"
	case "arm":
		return "armv7l"
	case "riscv64":
		return "riscv64"
	default:
		return goarch
	}
}

// sysPlatform converts GOOS to Python's sys.platform spelling.
func sysPlatform(goos string) string {
	if p, ok := sysPlatformMap[goos]; ok {
		return p
	}
	return goos
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
