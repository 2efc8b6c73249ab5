package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Event formats accepted by the match command.
const (
	EventsAuto  = "auto"
	EventsJSONL = "jsonl"
	EventsYAML  = "yaml"
)

const maxLine = 1 << 20

// Event assigns truth values to predicates by name.
type Event map[string]bool

// EventError reports an event that could not be decoded.
type EventError struct {
	Seq int // 1-based position of the event in the stream
	Err error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %d: %v", e.Seq, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// eventFormat resolves "auto" from the file extension; standard input and
// unknown extensions are read as JSON lines.
func eventFormat(format, path string) (string, error) {
	switch format {
	case EventsJSONL, EventsYAML:
		return format, nil
	case EventsAuto, "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return EventsYAML, nil
		}
		return EventsJSONL, nil
	}
	return "", fmt.Errorf("invalid events format %q: must be one of auto, jsonl, yaml", format)
}

// readEvents decodes r and calls fn for each event in order. Blank JSON
// lines are skipped. A YAML stream holds one or more documents, each a list
// of events.
func readEvents(r io.Reader, format string, fn func(seq int, ev Event) error) error {
	if format == EventsYAML {
		return readYAMLEvents(r, fn)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	seq := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		seq++
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return &EventError{Seq: seq, Err: err}
		}
		if err := fn(seq, ev); err != nil {
			return err
		}
	}
	return sc.Err()
}

func readYAMLEvents(r io.Reader, fn func(seq int, ev Event) error) error {
	dec := yaml.NewDecoder(r)
	seq := 0
	for {
		var doc []Event
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &EventError{Seq: seq + 1, Err: err}
		}
		for _, ev := range doc {
			seq++
			if err := fn(seq, ev); err != nil {
				return err
			}
		}
	}
}
