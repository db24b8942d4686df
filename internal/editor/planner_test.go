package editor

import (
	"strings"
	"testing"

	"subedit/internal/ffmpeg"
	"subedit/pkg/models"
)

func testProbe() *ffmpeg.ProbeResult {
	return &ffmpeg.ProbeResult{
		Format: ffmpeg.FormatInfo{FormatName: "matroska,webm"},
		Streams: []ffmpeg.StreamInfo{
			{Index: 0, CodecName: "h264", CodecType: "video"},
			{Index: 1, CodecName: "aac", CodecType: "audio"},
			{Index: 2, CodecName: "subrip", CodecType: "subtitle", Tags: map[string]string{"language": "eng"}},
			{Index: 3, CodecName: "ass", CodecType: "subtitle", Tags: map[string]string{"language": "ger"}},
			{Index: 4, CodecName: "subrip", CodecType: "subtitle", Tags: map[string]string{"language": "fra"}},
		},
	}
}

func TestPlanRemoveTranslatesToStreamIndex(t *testing.T) {
	ops := []models.Operation{
		{Kind: models.OpRemove, Track: 1},
	}

	spec, err := Plan(testProbe(), ops, "in.mkv", "out.mkv")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	if !spec.RemoveStreams[3] {
		t.Errorf("track ordinal 1 should map to stream index 3, got %v", spec.RemoveStreams)
	}
	if len(spec.RemoveStreams) != 1 {
		t.Errorf("expected 1 removed stream, got %d", len(spec.RemoveStreams))
	}
	if spec.DefaultOrdinal != -1 {
		t.Errorf("dispositions should be untouched, got ordinal %d", spec.DefaultOrdinal)
	}
}

func TestPlanSetDefaultAfterRemoveShiftsOrdinal(t *testing.T) {
	// Remove track 0; track 2 of the original list becomes output ordinal 1.
	ops := []models.Operation{
		{Kind: models.OpRemove, Track: 0},
		{Kind: models.OpSetDefault, Track: 2},
	}

	spec, err := Plan(testProbe(), ops, "in.mkv", "out.mkv")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	if spec.DefaultOrdinal != 1 {
		t.Errorf("DefaultOrdinal = %d, want 1", spec.DefaultOrdinal)
	}
}

func TestPlanAddDefault(t *testing.T) {
	ops := []models.Operation{
		{Kind: models.OpAdd, SubtitlePath: "subs.srt", Language: "spa", Default: true},
	}

	spec, err := Plan(testProbe(), ops, "in.mkv", "out.mkv")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	// Three kept originals, the added one lands at ordinal 3.
	if spec.DefaultOrdinal != 3 {
		t.Errorf("DefaultOrdinal = %d, want 3", spec.DefaultOrdinal)
	}
	if len(spec.Adds) != 1 || spec.Adds[0].Language != "spa" {
		t.Errorf("Adds = %+v", spec.Adds)
	}
}

func TestPlanLaterSetDefaultWins(t *testing.T) {
	ops := []models.Operation{
		{Kind: models.OpAdd, SubtitlePath: "subs.srt", Default: true},
		{Kind: models.OpSetDefault, Track: 0},
	}

	spec, err := Plan(testProbe(), ops, "in.mkv", "out.mkv")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	if spec.DefaultOrdinal != 0 {
		t.Errorf("DefaultOrdinal = %d, want 0 (explicit set_default wins)", spec.DefaultOrdinal)
	}
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		ops     []models.Operation
		wantErr string
	}{
		{
			name:    "remove out of range",
			ops:     []models.Operation{{Kind: models.OpRemove, Track: 3}},
			wantErr: "out of range",
		},
		{
			name: "remove twice",
			ops: []models.Operation{
				{Kind: models.OpRemove, Track: 1},
				{Kind: models.OpRemove, Track: 1},
			},
			wantErr: "removed twice",
		},
		{
			name: "set default then remove it",
			ops: []models.Operation{
				{Kind: models.OpSetDefault, Track: 1},
				{Kind: models.OpRemove, Track: 1},
			},
			wantErr: "queued as default",
		},
		{
			name: "set default on removed track",
			ops: []models.Operation{
				{Kind: models.OpRemove, Track: 1},
				{Kind: models.OpSetDefault, Track: 1},
			},
			wantErr: "cannot be default",
		},
		{
			name:    "add with unrecognized extension",
			ops:     []models.Operation{{Kind: models.OpAdd, SubtitlePath: "subs.txt"}},
			wantErr: "not a recognized subtitle file",
		},
		{
			name:    "unknown kind",
			ops:     []models.Operation{{Kind: "transmogrify"}},
			wantErr: "unknown operation kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(testProbe(), tt.ops, "in.mkv", "out.mkv")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPlanProducesValidArgs(t *testing.T) {
	ops := []models.Operation{
		{Kind: models.OpRemove, Track: 0},
		{Kind: models.OpAdd, SubtitlePath: "subs.vtt", Language: "spa", Title: "Spanish"},
		{Kind: models.OpSetDefault, Track: 2},
	}

	spec, err := Plan(testProbe(), ops, "in.mkv", "out.mkv")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	args, err := spec.Args()
	if err != nil {
		t.Fatalf("Args() failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-map 0:2") {
		t.Errorf("removed stream mapped: %q", joined)
	}
	// Originals 1 and 2 kept (ordinals 0, 1), add at ordinal 2, default on
	// original ordinal 2 which is now output ordinal 1.
	if !strings.Contains(joined, "-disposition:s:1 default") {
		t.Errorf("wrong default disposition: %q", joined)
	}
	if !strings.Contains(joined, "-metadata:s:s:2 language=spa") {
		t.Errorf("added subtitle metadata missing: %q", joined)
	}
}
