// Package crack swaps Steam API and client libraries in a game tree for the
// replacement builds kept in a local directory, keeping a one-time backup of
// every original.
package crack

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Kind names a replacement slot.
type Kind string

const (
	KindWin32         Kind = "win_32"
	KindWin64         Kind = "win_64"
	KindLinux32       Kind = "linux_32"
	KindLinux64       Kind = "linux_64"
	KindMacOS         Kind = "macos"
	KindClientLinux32 Kind = "steamclient_linux_32"
	KindClientLinux64 Kind = "steamclient_linux_64"
	KindClientMacOS   Kind = "steamclient_macos"
)

// Replacements maps each slot to its file below the replacement directory.
var Replacements = map[Kind]string{
	KindWin32:         filepath.Join("win_32", "steam_api.dll"),
	KindWin64:         filepath.Join("win_64", "steam_api64.dll"),
	KindLinux32:       filepath.Join("linux_32", "libsteam_api.so"),
	KindLinux64:       filepath.Join("linux_64", "libsteam_api.so"),
	KindMacOS:         filepath.Join("macos", "libsteam_api.dylib"),
	KindClientLinux32: filepath.Join("linux_32", "steamclient.so"),
	KindClientLinux64: filepath.Join("linux_64", "steamclient.so"),
	KindClientMacOS:   filepath.Join("macos", "steamclient.dylib"),
}

// Kinds lists the slots in display order.
func Kinds() []Kind {
	return []Kind{KindWin32, KindWin64, KindLinux32, KindLinux64, KindMacOS, KindClientLinux32, KindClientLinux64, KindClientMacOS}
}

// Arch is a Linux library word size.
type Arch string

const (
	Arch32 Arch = "32"
	Arch64 Arch = "64"
)

var (
	// ErrNotSteamFile is returned by Identify for unrelated files.
	ErrNotSteamFile = errors.New("not a steam library")
	// ErrArchUnknown is returned when a Linux library gives no architecture hint.
	ErrArchUnknown = errors.New("cannot determine architecture")
)

type family struct {
	fixed   Kind
	linux32 Kind
	linux64 Kind
}

var families = map[string]family{
	"steam_api.dll":      {fixed: KindWin32},
	"steam_api64.dll":    {fixed: KindWin64},
	"libsteam_api.so":    {linux32: KindLinux32, linux64: KindLinux64},
	"libsteam_api.dylib": {fixed: KindMacOS},
	"steamclient.so":     {linux32: KindClientLinux32, linux64: KindClientLinux64},
	"steamclient.dylib":  {fixed: KindClientMacOS},
}

var (
	arch32Hints = []string{"linux32", "lib32", "i386", "i686", "x86/", "32bit", "win32"}
	arch64Hints = []string{"linux64", "lib64", "x86_64", "amd64", "x64/", "64bit", "win64"}
)

// Identify classifies path by file name. Linux libraries are resolved with
// DetectArch; when that fails the error is ErrArchUnknown.
func Identify(path string) (Kind, error) {
	fam, ok := families[strings.ToLower(filepath.Base(path))]
	if !ok {
		return "", ErrNotSteamFile
	}
	if fam.fixed != "" {
		return fam.fixed, nil
	}
	arch, ok := DetectArch(path)
	if !ok {
		return "", ErrArchUnknown
	}
	return KindFor(path, arch)
}

// KindFor resolves a Linux library to its slot for arch.
func KindFor(path string, arch Arch) (Kind, error) {
	fam, ok := families[strings.ToLower(filepath.Base(path))]
	if !ok {
		return "", ErrNotSteamFile
	}
	if fam.fixed != "" {
		return fam.fixed, nil
	}
	switch arch {
	case Arch32:
		return fam.linux32, nil
	case Arch64:
		return fam.linux64, nil
	}
	return "", ErrArchUnknown
}

// DetectArch looks for 32/64-bit hints in the file's absolute path, then in
// the names of its siblings.
func DetectArch(path string) (Arch, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if arch, ok := archFromText(filepath.ToSlash(abs)); ok {
		return arch, true
	}
	entries, err := os.ReadDir(filepath.Dir(abs))
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if arch, ok := archFromText(entry.Name()); ok {
			return arch, true
		}
	}
	return "", false
}

func archFromText(text string) (Arch, bool) {
	text = strings.ToLower(text)
	for _, hint := range arch32Hints {
		if strings.Contains(text, hint) {
			return Arch32, true
		}
	}
	for _, hint := range arch64Hints {
		if strings.Contains(text, hint) {
			return Arch64, true
		}
	}
	return "", false
}
