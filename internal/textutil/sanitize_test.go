package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Half-Life 2: Episode One", "Half-Life 2 Episode One"},
		{`  A<b>c"d|e?f*  `, "Abcdef"},
		{"Path/With\\Slashes", "PathWithSlashes"},
		{"Too   many\tspaces", "Too many spaces"},
		{"", ""},
		// Decomposed e + combining acute becomes a single rune.
		{"Pokémon", "Pokémon"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnderscoredAndDotted(t *testing.T) {
	if got := Underscored("Artist - Album MP3 V0"); got != "Artist_-_Album_MP3_V0" {
		t.Fatalf("Underscored = %q", got)
	}
	if got := Dotted("Some Game Title"); got != "Some.Game.Title" {
		t.Fatalf("Dotted = %q", got)
	}
}

func TestFoldKeyIgnoresCase(t *testing.T) {
	if FoldKey("RED") != FoldKey("red") {
		t.Fatal("expected equal fold keys")
	}
	if FoldKey("alpha") >= FoldKey("Beta") {
		t.Fatal("expected alpha to sort before Beta")
	}
}
