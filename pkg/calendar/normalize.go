package calendar

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

const maxFeedLine = 1024 * 1024

// closeOpenEndedEvents gives every VEVENT that has a DTSTART but neither DTEND nor DURATION
// a zero DURATION, the parser drops events without an end.
// Properties of nested components such as VALARM are ignored.
func closeOpenEndedEvents(feed io.Reader) (io.Reader, error) {
	var out bytes.Buffer

	scanner := bufio.NewScanner(feed)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFeedLine)

	inEvent := false
	nested := 0
	hasStart, hasEnd := false, false

	for scanner.Scan() {
		line := scanner.Text()
		key, value := propertyKey(line)

		switch {
		case !inEvent:
			if key == "BEGIN" && value == "VEVENT" {
				inEvent, nested = true, 0
				hasStart, hasEnd = false, false
			}
		case key == "BEGIN":
			nested++
		case key == "END" && nested > 0:
			nested--
		case key == "END" && value == "VEVENT":
			if hasStart && !hasEnd {
				out.WriteString("DURATION:PT0S\r\n")
			}
			inEvent = false
		case nested > 0:
		case key == "DTSTART":
			hasStart = true
		case key == "DTEND" || key == "DURATION":
			hasEnd = true
		}

		out.WriteString(line)
		out.WriteString("\r\n")
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read calendar feed: %w", err)
	}

	return &out, nil
}

// propertyKey returns the upper cased property name of a content line and, for BEGIN/END, the component name.
// Folded continuation lines have no key.
func propertyKey(line string) (string, string) {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return "", ""
	}

	name, value, found := strings.Cut(line, ":")
	if !found {
		return "", ""
	}

	name, _, _ = strings.Cut(name, ";")

	return strings.ToUpper(strings.TrimSpace(name)), strings.ToUpper(strings.TrimSpace(value))
}
