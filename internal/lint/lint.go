// Package lint applies structural sanity checks to a parsed GIF beyond
// what the container parser itself enforces to stay permissive (spec §7:
// the parser recovers from structural errors by truncating rather than
// rejecting, so a stricter check is useful as a separate, opt-in step).
// The checks here are grounded on the validation passes a standalone GIF
// checker runs before deciding whether a file round-trips cleanly.
package lint

import (
	"fmt"

	"github.com/aculnaig/av-gif/internal/container"
)

// Severity classifies a Finding.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// Finding is one structural issue surfaced by Check.
type Finding struct {
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
}

// Check runs a battery of structural sanity checks against an already
// parsed GIF and returns every issue found. An empty slice means the file
// is clean.
func Check(parsed *container.ParsedGif) []Finding {
	var findings []Finding

	if parsed.Truncated {
		findings = append(findings, Finding{SeverityError, "stream ended before a trailer block was seen"})
	}

	if len(parsed.Frames) == 0 {
		findings = append(findings, Finding{SeverityWarning, "no image descriptors found"})
	}

	for i, frame := range parsed.Frames {
		if !parsed.Screen.HasGlobalColorTable() && !frame.HasLocalColorTable() {
			findings = append(findings, Finding{SeverityError,
				fmt.Sprintf("frame %d has neither a local nor a global color table", i)})
		}

		if right := int(frame.Left) + int(frame.Width); right > int(parsed.Screen.Width) {
			findings = append(findings, Finding{SeverityWarning,
				fmt.Sprintf("frame %d extends past the logical screen width (%d > %d)", i, right, parsed.Screen.Width)})
		}
		if bottom := int(frame.Top) + int(frame.Height); bottom > int(parsed.Screen.Height) {
			findings = append(findings, Finding{SeverityWarning,
				fmt.Sprintf("frame %d extends past the logical screen height (%d > %d)", i, bottom, parsed.Screen.Height)})
		}

		if frame.MinCodeSize < 2 || frame.MinCodeSize > 8 {
			findings = append(findings, Finding{SeverityError,
				fmt.Sprintf("frame %d has an out-of-range LZW minimum code size (%d)", i, frame.MinCodeSize)})
		}

		if len(frame.Data) == 0 {
			findings = append(findings, Finding{SeverityWarning,
				fmt.Sprintf("frame %d carries no compressed image data", i)})
		}

		if frame.GCE != nil && frame.GCE.DisposalMethod > 3 {
			findings = append(findings, Finding{SeverityWarning,
				fmt.Sprintf("frame %d uses a reserved disposal method (%d)", i, frame.GCE.DisposalMethod)})
		}
	}

	seenNetscape := false
	for _, app := range parsed.Applications {
		if string(app.Identifier[:]) == "NETSCAPE" && string(app.AuthCode[:]) == "2.0" {
			if seenNetscape {
				findings = append(findings, Finding{SeverityWarning, "more than one NETSCAPE2.0 loop extension present"})
			}
			seenNetscape = true
		}
	}

	return findings
}
