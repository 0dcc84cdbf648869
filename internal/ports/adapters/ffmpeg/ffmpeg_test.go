package ffmpeg

import (
	"bytes"
	"math"
	"testing"
)

func TestParseProbeOutput(t *testing.T) {
	out := []byte(`{
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "width": 1080, "height": 1920, "duration": "120.500000", "r_frame_rate": "30000/1001"}
		],
		"format": {"duration": "121.000000"}
	}`)
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Width != 1080 || info.Height != 1920 {
		t.Fatalf("unexpected dimensions: %+v", info)
	}
	if info.Orientation != "vertical" {
		t.Fatalf("expected vertical orientation, got %s", info.Orientation)
	}
	if info.Duration != 120.5 {
		t.Fatalf("expected stream duration preferred, got %v", info.Duration)
	}
	if math.Abs(info.FPS-29.97) > 0.01 {
		t.Fatalf("unexpected fps: %v", info.FPS)
	}
}

func TestParseProbeOutput_FormatDurationFallback(t *testing.T) {
	out := []byte(`{
		"streams": [{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "25/1"}],
		"format": {"duration": "33.20"}
	}`)
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Duration != 33.2 {
		t.Fatalf("expected format-level duration, got %v", info.Duration)
	}
	if info.Orientation != "horizontal" {
		t.Fatalf("expected horizontal orientation, got %s", info.Orientation)
	}
}

func TestParseProbeOutput_NoVideoStream(t *testing.T) {
	if _, err := parseProbeOutput([]byte(`{"streams":[{"codec_type":"audio"}]}`)); err == nil {
		t.Fatalf("expected error for audio-only container")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := map[string]float64{
		"30/1":       30,
		"30000/1001": 29.97002997002997,
		"0/0":        0,
		"25":         25,
		"garbage":    0,
	}
	for in, want := range tests {
		if got := parseFrameRate(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseMeanVolume(t *testing.T) {
	out := `[Parsed_volumedetect_0 @ 0x55] n_samples: 88200
[Parsed_volumedetect_0 @ 0x55] mean_volume: -23.4 dB
[Parsed_volumedetect_0 @ 0x55] max_volume: -5.0 dB`
	v, ok := parseMeanVolume(out)
	if !ok || v != -23.4 {
		t.Fatalf("parseMeanVolume = %v, %v", v, ok)
	}
	if _, ok := parseMeanVolume("no volume here"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestNormalizeLoudness(t *testing.T) {
	tests := map[float64]float64{
		-23.4:  76.6,
		-100:   0,
		-130.5: 0,
		-0.5:   99.5,
	}
	for in, want := range tests {
		if got := normalizeLoudness(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("normalizeLoudness(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFrameActivity(t *testing.T) {
	const size = 4

	t.Run("flat frames", func(t *testing.T) {
		frames := bytes.Repeat([]byte{10, 10, 10, 10}, 3)
		got, err := frameActivity(bytes.NewReader(frames), size)
		if err != nil || got != 0 {
			t.Fatalf("expected 0 activity, got %v (%v)", got, err)
		}
	})

	t.Run("uniform step", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write([]byte{0, 0, 0, 0})
		buf.Write([]byte{10, 10, 10, 10})
		buf.Write([]byte{30, 30, 30, 30})
		got, err := frameActivity(&buf, size)
		if err != nil {
			t.Fatal(err)
		}
		// pair diffs are 10 and 20, mean 15
		if got != 15 {
			t.Fatalf("expected activity 15, got %v", got)
		}
	})

	t.Run("single frame yields zero", func(t *testing.T) {
		got, err := frameActivity(bytes.NewReader(make([]byte, size)), size)
		if err != nil || got != 0 {
			t.Fatalf("expected 0 for single frame, got %v (%v)", got, err)
		}
	})

	t.Run("empty stream yields zero", func(t *testing.T) {
		got, err := frameActivity(bytes.NewReader(nil), size)
		if err != nil || got != 0 {
			t.Fatalf("expected 0 for empty stream, got %v (%v)", got, err)
		}
	})

	t.Run("truncated trailing frame ignored", func(t *testing.T) {
		frames := append(bytes.Repeat([]byte{5}, size*2), 1, 2)
		got, err := frameActivity(bytes.NewReader(frames), size)
		if err != nil || got != 0 {
			t.Fatalf("expected truncated tail dropped, got %v (%v)", got, err)
		}
	})
}

func TestMeanAbsDiff(t *testing.T) {
	a := []byte{0, 100, 200}
	b := []byte{10, 90, 250}
	if got := meanAbsDiff(a, b); got != 70.0/3 {
		t.Fatalf("meanAbsDiff = %v", got)
	}
}
