package ffmpeg

import (
	"strings"
	"testing"
)

func testStreams() []StreamInfo {
	return []StreamInfo{
		{Index: 0, CodecName: "h264", CodecType: "video"},
		{Index: 1, CodecName: "aac", CodecType: "audio"},
		{Index: 2, CodecName: "subrip", CodecType: "subtitle"},
		{Index: 3, CodecName: "ass", CodecType: "subtitle"},
	}
}

func TestRemuxSpecArgsRemove(t *testing.T) {
	spec := RemuxSpec{
		InputPath:      "in.mkv",
		Streams:        testStreams(),
		RemoveStreams:  map[int]bool{2: true},
		DefaultOrdinal: -1,
		OutputPath:     "out.mkv",
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	want := "-i in.mkv -map 0:0 -map 0:1 -map 0:3 -c copy -y out.mkv"
	if joined != want {
		t.Errorf("Args() = %q, want %q", joined, want)
	}
}

func TestRemuxSpecArgsAdd(t *testing.T) {
	spec := RemuxSpec{
		InputPath: "in.mkv",
		Streams:   testStreams(),
		Adds: []SubtitleInput{
			{Path: "subs.srt", Language: "fra", Title: "French"},
		},
		DefaultOrdinal: -1,
		OutputPath:     "out.mkv",
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	want := "-i in.mkv -i subs.srt -map 0:0 -map 0:1 -map 0:2 -map 0:3 -map 1:0 " +
		"-c copy -metadata:s:s:2 language=fra -metadata:s:s:2 title=French -y out.mkv"
	if joined != want {
		t.Errorf("Args() = %q, want %q", joined, want)
	}
}

func TestRemuxSpecArgsAddToMP4(t *testing.T) {
	spec := RemuxSpec{
		InputPath: "in.mp4",
		Streams: []StreamInfo{
			{Index: 0, CodecName: "h264", CodecType: "video"},
			{Index: 1, CodecName: "aac", CodecType: "audio"},
		},
		Adds: []SubtitleInput{
			{Path: "subs.srt"},
		},
		DefaultOrdinal: -1,
		OutputPath:     "out.mp4",
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:s:0 mov_text") {
		t.Errorf("mp4 output should transcode added subtitles to mov_text, got %q", joined)
	}
	if !strings.Contains(joined, "-metadata:s:s:0 language=und") {
		t.Errorf("missing language tag defaulted to und, got %q", joined)
	}
}

func TestRemuxSpecArgsSetDefault(t *testing.T) {
	spec := RemuxSpec{
		InputPath:      "in.mkv",
		Streams:        testStreams(),
		DefaultOrdinal: 1,
		OutputPath:     "out.mkv",
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-disposition:s:0 0") {
		t.Errorf("other tracks must have disposition cleared, got %q", joined)
	}
	if !strings.Contains(joined, "-disposition:s:1 default") {
		t.Errorf("chosen track must be flagged default, got %q", joined)
	}
}

func TestRemuxSpecArgsCombined(t *testing.T) {
	// Remove track 0, add one, make the added one default. After removal the
	// remaining original subtitle is ordinal 0 and the added one ordinal 1.
	spec := RemuxSpec{
		InputPath:     "in.mkv",
		Streams:       testStreams(),
		RemoveStreams: map[int]bool{2: true},
		Adds: []SubtitleInput{
			{Path: "subs.vtt", Language: "spa"},
		},
		DefaultOrdinal: 1,
		OutputPath:     "out.mkv",
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-map 0:2") {
		t.Errorf("removed stream still mapped: %q", joined)
	}
	if !strings.Contains(joined, "-metadata:s:s:1 language=spa") {
		t.Errorf("added subtitle should land at ordinal 1, got %q", joined)
	}
	if !strings.Contains(joined, "-disposition:s:1 default") {
		t.Errorf("added subtitle should be default, got %q", joined)
	}
}

func TestRemuxSpecArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		spec RemuxSpec
	}{
		{
			name: "missing input",
			spec: RemuxSpec{OutputPath: "out.mkv", DefaultOrdinal: -1},
		},
		{
			name: "missing output",
			spec: RemuxSpec{InputPath: "in.mkv", DefaultOrdinal: -1},
		},
		{
			name: "output not a container",
			spec: RemuxSpec{InputPath: "in.mkv", OutputPath: "out.srt", DefaultOrdinal: -1},
		},
		{
			name: "removing a non-subtitle stream",
			spec: RemuxSpec{
				InputPath:      "in.mkv",
				Streams:        testStreams(),
				RemoveStreams:  map[int]bool{0: true},
				DefaultOrdinal: -1,
				OutputPath:     "out.mkv",
			},
		},
		{
			name: "default ordinal out of range",
			spec: RemuxSpec{
				InputPath:      "in.mkv",
				Streams:        testStreams(),
				DefaultOrdinal: 5,
				OutputPath:     "out.mkv",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.spec.Args(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuildExtractArgs(t *testing.T) {
	tests := []struct {
		name string
		opts ExtractOptions
		want string
	}{
		{
			name: "copy when codec matches",
			opts: ExtractOptions{InputPath: "in.mkv", Track: 0, SourceCodec: "subrip", OutputPath: "out.srt"},
			want: "-i in.mkv -map 0:s:0 -c:s copy -y out.srt",
		},
		{
			name: "convert across formats",
			opts: ExtractOptions{InputPath: "in.mkv", Track: 1, SourceCodec: "ass", OutputPath: "out.srt"},
			want: "-i in.mkv -map 0:s:1 -c:s subrip -y out.srt",
		},
		{
			name: "convert to vtt",
			opts: ExtractOptions{InputPath: "in.mkv", Track: 0, SourceCodec: "subrip", OutputPath: "out.vtt"},
			want: "-i in.mkv -map 0:s:0 -c:s webvtt -y out.vtt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuildExtractArgs(tt.opts)
			if err != nil {
				t.Fatalf("BuildExtractArgs() failed: %v", err)
			}
			if got := strings.Join(args, " "); got != tt.want {
				t.Errorf("BuildExtractArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildExtractArgsUnknownFormat(t *testing.T) {
	_, err := BuildExtractArgs(ExtractOptions{InputPath: "in.mkv", OutputPath: "out.txt"})
	if err == nil {
		t.Error("expected error for unknown output format")
	}
}
