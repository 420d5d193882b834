package rendition

import (
	"slices"
	"testing"

	"vidconv/internal/settings"
	"vidconv/internal/source"
)

func TestAvailableHeightBoundaries(t *testing.T) {
	tests := []struct {
		height int
		want   []Rendition
	}{
		{0, []Rendition{AudioExtract}},
		{479, []Rendition{AudioExtract}},
		{480, []Rendition{Video480p, AudioExtract}},
		{719, []Rendition{Video480p, AudioExtract}},
		{720, []Rendition{Video720p, Video480p, AudioExtract}},
		{1079, []Rendition{Video720p, Video480p, AudioExtract}},
		{1080, []Rendition{Video1080p, Video720p, Video480p, AudioExtract}},
		{4000, []Rendition{Video1080p, Video720p, Video480p, AudioExtract}},
	}
	for _, tt := range tests {
		got := Available(source.Descriptor{Height: tt.height})
		if !slices.Equal(got, tt.want) {
			t.Errorf("Available(height=%d) = %v, want %v", tt.height, got, tt.want)
		}
	}
}

func TestOfferedRejectsUpscale(t *testing.T) {
	d := source.Descriptor{Height: 720}
	if Offered(d, Video1080p) {
		t.Fatal("1080p must not be offered for a 720-line source")
	}
	if !Offered(d, Video720p) || !Offered(d, AudioExtract) {
		t.Fatal("expected 720p and audio to be offered")
	}
}

func TestNameFor(t *testing.T) {
	tests := []struct {
		input string
		r     Rendition
		want  string
	}{
		{"/videos/holiday.mov", Video720p, "/videos/holiday_720p.mp4"},
		{"/videos/holiday.mov", Video1080p, "/videos/holiday_1080p.mp4"},
		{"/videos/holiday.mov", AudioExtract, "/videos/holiday.mp3"},
		{"/videos/my.movie.v2.mkv", Video480p, "/videos/my.movie.v2_480p.mp4"},
		{"/videos/noext", AudioExtract, "/videos/noext.mp3"},
		{"clip.mp4", Video720p, "clip_720p.mp4"},
	}
	for _, tt := range tests {
		got := NameFor(tt.input, tt.r)
		if got != tt.want {
			t.Errorf("NameFor(%q, %v) = %q, want %q", tt.input, tt.r, got, tt.want)
		}
		if again := NameFor(tt.input, tt.r); again != got {
			t.Errorf("NameFor not deterministic: %q vs %q", got, again)
		}
	}
}

func TestNameForIsInjectivePerSource(t *testing.T) {
	seen := map[string]Rendition{}
	for _, r := range All() {
		name := NameFor("/videos/input.mp4", r)
		if prev, ok := seen[name]; ok {
			t.Fatalf("%v and %v share output %q", prev, r, name)
		}
		seen[name] = r
	}
}

func TestParse(t *testing.T) {
	tests := map[string]Rendition{
		"1080p": Video1080p,
		"720P":  Video720p,
		" 480 ": Video480p,
		"audio": AudioExtract,
		"MP3":   AudioExtract,
	}
	for input, want := range tests {
		got, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", input, got, want)
		}
	}
	for _, bad := range []string{"", "4k", "2160p", "video"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestBitrateTier(t *testing.T) {
	tier, ok := Video720p.BitrateTier()
	if !ok || tier != settings.Tier720p {
		t.Fatalf("720p tier = %q, %v", tier, ok)
	}
	if _, ok := AudioExtract.BitrateTier(); ok {
		t.Fatal("audio must not have a video bitrate tier")
	}
}

func TestUnmarshalTextAcceptsAliases(t *testing.T) {
	var r Rendition
	if err := r.UnmarshalText([]byte("mp3")); err != nil || r != AudioExtract {
		t.Fatalf("UnmarshalText(mp3) = %v, %v", r, err)
	}
	if _, err := Rendition(0).MarshalText(); err == nil {
		t.Fatal("expected error for zero rendition")
	}
}

func TestTagPanicsOnUnknownValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = Rendition(99).Tag()
}
