package types

// Transcript is the output of the external speech-to-text collaborator.
// Segments are ordered by Start non-decreasing; overlaps are possible and
// must be tolerated downstream.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Segment is a single transcribed utterance span. Times are absolute
// seconds on the source video's time axis.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// VideoInfo holds container-level metadata. Computed once by the prober and
// read-only afterward.
type VideoInfo struct {
	Width       int
	Height      int
	Duration    float64
	FPS         float64
	Orientation Orientation
}

// DefaultVideoInfo is what the pipeline assumes when probing fails. Duration 0
// keeps duration-based branching deterministic.
func DefaultVideoInfo() VideoInfo {
	return VideoInfo{Width: 1920, Height: 1080, Duration: 0, Orientation: Horizontal}
}

// Moment is a scored, possibly-merged time window before clip-policy
// adjustment. Start/End/Text/Score may be widened during the merge sweep;
// once ranking finishes it is immutable.
type Moment struct {
	Start       float64
	End         float64
	Text        string
	Score       float64
	SourceIndex int
}

func (m Moment) Duration() float64 { return m.End - m.Start }

// Overlaps reports whether two windows share any time.
func (m Moment) Overlaps(o Moment) bool {
	return m.Start < o.End && m.End > o.Start
}

// Clip is a finalized, duration-policy-compliant extraction window. It is
// never mutated after creation; encoding and publishing collaborators consume
// it read-only.
type Clip struct {
	Index      int
	Start      float64
	End        float64
	Duration   float64
	Score      float64
	Summary    string
	Identifier string
}

// Cue is one subtitle display unit. Times are clip-relative (0-based on the
// clip's own axis) and never share the source transcript's time axis.
type Cue struct {
	Start float64
	End   float64
	Lines []string
}

// Manifest describes a pipeline run's artifacts for the external encoder and
// publisher.
type Manifest struct {
	Input string         `json:"input"`
	Clips []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID        string  `json:"id"`
	Index     int     `json:"index"`
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	Duration  float64 `json:"duration_sec"`
	Score     float64 `json:"score"`
	Summary   string  `json:"summary"`
	Subtitles string  `json:"subtitles"`
}
