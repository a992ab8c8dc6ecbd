package steam

import (
	"fmt"
	"strings"
)

// Platform is a steamcmd platform type with its folder label.
type Platform struct {
	Key   string
	Label string
}

var knownPlatforms = []Platform{
	{Key: "linux", Label: "Linux"},
	{Key: "windows", Label: "Windows"},
	{Key: "macos", Label: "macOS"},
}

// Platforms returns every supported platform.
func Platforms() []Platform {
	return append([]Platform(nil), knownPlatforms...)
}

// ParsePlatforms resolves platform keys (any case). An empty list means all.
func ParsePlatforms(keys []string) ([]Platform, error) {
	if len(keys) == 0 {
		return Platforms(), nil
	}
	var out []Platform
	seen := make(map[string]bool)
	for _, raw := range keys {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" || seen[key] {
			continue
		}
		p, ok := platformByKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q (want linux, windows, or macos)", raw)
		}
		seen[key] = true
		out = append(out, p)
	}
	return out, nil
}

func platformByKey(key string) (Platform, bool) {
	for _, p := range knownPlatforms {
		if p.Key == key {
			return p, true
		}
	}
	return Platform{}, false
}

// Target is one platform install directory in a session.
type Target struct {
	Platform Platform
	Dir      string
}

// ValidAppID reports whether id is a non-empty string of digits.
func ValidAppID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LoginArgs builds the +login command. Password and guard code are optional.
func LoginArgs(username, password, guardCode string) []string {
	args := []string{"+login", username}
	if password != "" {
		args = append(args, password)
	}
	if guardCode != "" {
		args = append(args, "+set_steam_guard_code", guardCode)
	}
	return args
}

// BuildBatchCommand returns the steamcmd arguments for a whole session.
func BuildBatchCommand(appID string, login []string, plan []Target) []string {
	args := append([]string(nil), login...)
	args = append(args, "+app_info_update", "1", "+app_info_print", appID)
	for _, t := range plan {
		args = append(args,
			"+@sSteamCmdForcePlatformType", t.Platform.Key,
			"+force_install_dir", t.Dir,
			"+app_update", appID, "validate",
		)
	}
	return append(args, "+quit")
}

// ParseGameName reads the first `"name" "<value>"` line of app_info_print
// output. It falls back to "App <id>".
func ParseGameName(output, appID string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `"name"`) {
			continue
		}
		parts := strings.Split(line, `"`)
		if len(parts) >= 4 && strings.TrimSpace(parts[3]) != "" {
			return parts[3]
		}
	}
	return FallbackName(appID)
}

// FallbackName is the name used when no game name can be found.
func FallbackName(appID string) string {
	return "App " + appID
}

// LooksLikeLoginPrompt reports whether steamcmd output asks for credentials.
func LooksLikeLoginPrompt(output string) bool {
	t := strings.ToLower(output)
	return strings.Contains(t, "steam guard") ||
		strings.Contains(t, "confirm the login") ||
		strings.Contains(t, "login failure")
}
