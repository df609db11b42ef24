// Package segment splits a raw model reply into typed chunks: plain text
// lines and fenced code blocks with an optional language tag.
package segment

import "strings"

const fenceMarker = "```"

// Kind identifies what a segment contains.
type Kind string

const (
	KindText  Kind = "text"
	KindCode  Kind = "code"
	KindImage Kind = "image"
)

// Segment is one typed chunk of a model reply. Language is set only for
// code segments.
type Segment struct {
	Kind     Kind
	Content  string
	Language string
}

// Text builds a text segment.
func Text(content string) Segment {
	return Segment{Kind: KindText, Content: content}
}

// Code builds a code segment with its language tag.
func Code(content, language string) Segment {
	return Segment{Kind: KindCode, Content: content, Language: language}
}

// Image builds an image segment holding a URL reference.
func Image(url string) Segment {
	return Segment{Kind: KindImage, Content: url}
}

// Split scans a reply line by line and returns its segments in source order.
// A line starting with a triple-backtick fence toggles code mode; the trimmed
// remainder of an opening fence line is the language tag. Outside a fence,
// each non-blank line becomes its own text segment and blank lines are
// dropped. Lines accumulated in a fence that never closes are discarded.
func Split(raw string) []Segment {
	var segments []Segment
	var block []string
	var language string
	inFence := false

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, fenceMarker):
			if inFence {
				segments = append(segments, Code(strings.Join(block, "\n"), language))
				block = nil
				language = ""
				inFence = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, fenceMarker))
				inFence = true
			}
		case inFence:
			block = append(block, line)
		default:
			if strings.TrimSpace(line) != "" {
				segments = append(segments, Text(line))
			}
		}
	}

	return segments
}
