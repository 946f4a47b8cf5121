package stt

import (
	"regexp"
	"strings"
)

var (
	// regexTimestamp matches VTT/SRT timestamps like [00:00:00.000 --> 00:00:04.000]
	regexTimestamp = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\.\d{3}\s-->\s\d{2}:\d{2}:\d{2}\.\d{3}\]`)
	// regexArtifacts matches whisper non-speech markers like [BLANK_AUDIO] or (music)
	regexArtifacts = regexp.MustCompile(`\[[A-Z_ ]+\]|\((?i:music|silence|applause|laughter)\)`)
	regexSpaces    = regexp.MustCompile(`\s+`)
)

// cleanText removes timestamps and non-speech markers and collapses whitespace.
func cleanText(text string) string {
	text = regexTimestamp.ReplaceAllString(text, "")
	text = regexArtifacts.ReplaceAllString(text, "")
	text = regexSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// joinSegments concatenates segment texts separated by single spaces.
func joinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := cleanText(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
