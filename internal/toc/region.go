package toc

import (
	"errors"
	"strings"
)

var (
	// ErrNoMarkers means the document has no TOC region at all. Crawled files
	// are skipped on this error; explicitly named files report it.
	ErrNoMarkers     = errors.New("no TOC markers found")
	ErrNoStartMarker = errors.New("TOC end marker present but start marker missing")
	ErrNoEndMarker   = errors.New("TOC end marker missing")
	ErrMarkerOrder   = errors.New("TOC end marker precedes start marker")
)

// Region identifies the marker lines delimiting the generated TOC.
type Region struct {
	StartLine int // index of the start marker line
	EndLine   int // index of the end marker line
}

// FindRegion locates the first start marker line and the first end marker
// line after it. Marker lines match on their trimmed content, so indented
// markers and CRLF line endings are fine. On any error the caller must leave
// the document untouched.
func FindRegion(lines []string, startMarker, endMarker string) (Region, error) {
	start, end := -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start == -1 && trimmed == startMarker {
			start = i
			continue
		}
		if trimmed == endMarker {
			if start != -1 {
				return Region{StartLine: start, EndLine: i}, nil
			}
			if end == -1 {
				end = i
			}
		}
	}
	switch {
	case start == -1 && end == -1:
		return Region{}, ErrNoMarkers
	case start == -1:
		return Region{}, ErrNoStartMarker
	case end != -1:
		return Region{}, ErrMarkerOrder
	default:
		return Region{}, ErrNoEndMarker
	}
}
