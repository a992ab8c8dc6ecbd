package crack_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blacksys/internal/crack"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// replacementDir creates replacement files for the given slots.
func replacementDir(t *testing.T, kinds ...crack.Kind) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	for _, kind := range kinds {
		writeFile(t, filepath.Join(dir, crack.Replacements[kind]), "REPLACED-"+string(kind))
	}
	return dir
}

type fixedArch crack.Arch

func (f fixedArch) ResolveArch(context.Context, string) (crack.Arch, error) {
	return crack.Arch(f), nil
}

func TestIdentify(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		path string
		want crack.Kind
	}{
		{filepath.Join(root, "game", "Steam_API.dll"), crack.KindWin32},
		{filepath.Join(root, "game", "steam_api64.dll"), crack.KindWin64},
		{filepath.Join(root, "game", "lib", "x86_64", "libsteam_api.so"), crack.KindLinux64},
		{filepath.Join(root, "game", "bin", "linux32", "steamclient.so"), crack.KindClientLinux32},
		{filepath.Join(root, "game", "Contents", "libsteam_api.dylib"), crack.KindMacOS},
	}
	for _, tt := range tests {
		got, err := crack.Identify(tt.path)
		if err != nil || got != tt.want {
			t.Fatalf("Identify(%s) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
	if _, err := crack.Identify(filepath.Join(root, "readme.txt")); !errors.Is(err, crack.ErrNotSteamFile) {
		t.Fatalf("expected ErrNotSteamFile, got %v", err)
	}
}

func TestDetectArchFromSiblings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "game", "bin")
	lib := filepath.Join(dir, "libsteam_api.so")
	writeFile(t, lib, "orig")
	writeFile(t, filepath.Join(dir, "launcher_amd64"), "x")

	arch, ok := crack.DetectArch(lib)
	if !ok || arch != crack.Arch64 {
		t.Fatalf("DetectArch = %q, %v", arch, ok)
	}
}

func TestIdentifyUnknownArch(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "game", "libsteam_api.so")
	writeFile(t, lib, "orig")
	if _, err := crack.Identify(lib); !errors.Is(err, crack.ErrArchUnknown) {
		t.Fatalf("expected ErrArchUnknown, got %v", err)
	}
}

func TestRunReplacesAndBacksUpOnce(t *testing.T) {
	data := replacementDir(t, crack.KindWin64, crack.KindLinux64)
	game := filepath.Join(t.TempDir(), "Game-Windows")
	dll := filepath.Join(game, "bin", "steam_api64.dll")
	writeFile(t, dll, "original")
	writeFile(t, filepath.Join(game, "bin", "steam_api.dll"), "no replacement for win_32")

	r := crack.NewReplacer(data)
	summary, err := r.Run(context.Background(), game, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Actions) != 1 || summary.Replaced() != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.Actions[0].BackupCreated {
		t.Fatal("expected backup on first run")
	}
	if readFile(t, dll) != "REPLACED-win_64" || readFile(t, dll+crack.BackupSuffix) != "original" {
		t.Fatal("library not swapped or backup wrong")
	}
	if len(summary.Missing) != len(crack.Kinds())-2 {
		t.Fatalf("Missing = %v", summary.Missing)
	}

	// A second run never overwrites the original backup.
	summary, err = r.Run(context.Background(), game, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Actions[0].BackupCreated {
		t.Fatal("backup must not be recreated")
	}
	if readFile(t, dll+crack.BackupSuffix) != "original" {
		t.Fatal("backup was overwritten")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	data := replacementDir(t, crack.KindWin32)
	game := t.TempDir()
	dll := filepath.Join(game, "steam_api.dll")
	writeFile(t, dll, "original")

	summary, err := crack.NewReplacer(data).Run(context.Background(), game, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Actions) != 1 || summary.Replaced() != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if readFile(t, dll) != "original" {
		t.Fatal("dry run modified the library")
	}
	if _, err := os.Stat(dll + crack.BackupSuffix); !os.IsNotExist(err) {
		t.Fatal("dry run created a backup")
	}
}

func TestRunUsesArchResolver(t *testing.T) {
	data := replacementDir(t, crack.KindClientLinux32)
	game := filepath.Join(t.TempDir(), "Game-Linux")
	lib := filepath.Join(game, "steamclient.so")
	writeFile(t, lib, "orig")

	summary, err := crack.NewReplacer(data, crack.WithArchResolver(fixedArch(crack.Arch32))).Run(context.Background(), game, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Replaced() != 1 || readFile(t, lib) != "REPLACED-steamclient_linux_32" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunWithoutResolverRecordsFailure(t *testing.T) {
	data := replacementDir(t, crack.KindLinux64)
	game := t.TempDir()
	writeFile(t, filepath.Join(game, "sub", "libsteam_api.so"), "orig")

	summary, err := crack.NewReplacer(data).Run(context.Background(), game, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed() != 1 || !errors.Is(summary.Actions[0].Err, crack.ErrArchUnknown) {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunNoReplacements(t *testing.T) {
	_, err := crack.NewReplacer(filepath.Join(t.TempDir(), "empty")).Run(context.Background(), t.TempDir(), false)
	if !errors.Is(err, crack.ErrNoReplacements) {
		t.Fatalf("expected ErrNoReplacements, got %v", err)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	data := replacementDir(t, crack.KindWin32)
	if _, err := crack.NewReplacer(data).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), false); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
