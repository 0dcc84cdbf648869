package subtitles

import (
	"fmt"
	"strings"

	"github.com/momentcut/momentcut/internal/types"
)

// RenderASS serializes cues to an ASS subtitle track for the external
// encoder to burn in. Cue lines join with \N, the ASS hard line break.
func RenderASS(cues []types.Cue) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range cues {
		lines := make([]string, 0, len(c.Lines))
		for _, ln := range c.Lines {
			if s := sanitizeASS(ln); s != "" {
				lines = append(lines, s)
			}
		}
		text := strings.Join(lines, "\\N")
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", assTime(c.Start), assTime(c.End), text)
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
Title: Shorts Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial Black,48,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,1,0,0,0,100,100,0,0,1,3,1,2,20,20,50,1
`)
}

// assTime renders seconds as H:MM:SS.cc.
func assTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	// Round in centiseconds so a fraction like .995 carries into the next
	// second instead of pinning at .99.
	cs := int(sec*100 + 0.5)
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360000, cs/6000%60, cs/100%60, cs%100)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}
