package transcode

import (
	"fmt"
	"strings"
)

// Preset labels understood by the batch menus.
const (
	PresetV0  = "V0"
	PresetV2  = "V2"
	Preset320 = "320"
)

// Preset is a labelled set of lame arguments.
type Preset struct {
	Label string
	Args  []string
}

// FolderSuffix is the text substituted for "FLAC" in output folder names.
func (p Preset) FolderSuffix() string {
	return "MP3 " + p.Label
}

// PresetSource resolves preset labels, typically backed by the config.
type PresetSource interface {
	PresetArgs(label string) ([]string, bool)
}

// Lookup returns the preset for label from src.
func Lookup(src PresetSource, label string) (Preset, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	args, ok := src.PresetArgs(label)
	if !ok || len(args) == 0 {
		return Preset{}, fmt.Errorf("unknown preset %q", label)
	}
	return Preset{Label: label, Args: args}, nil
}
