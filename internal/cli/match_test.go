package cli

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/sere"
	"github.com/coregx/sere/matcher"
)

const sequenceEvents = `{"a": true}
{"b": true}
`

func TestMatchExtended(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Extended)
	events := writeFile(t, "events.jsonl", sequenceEvents)

	stdout, _, err := execute(t, NewMatchCommand(&RootOptions{Format: "text"}), artifact, events)
	require.NoError(t, err)
	assert.Equal(t, "1\tpartial horizon=1\n2\tmatched shortest=2 longest=2 horizon=2\n", stdout)
}

func TestMatchSimple(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Simple)
	events := writeFile(t, "events.jsonl", sequenceEvents)

	stdout, _, err := execute(t, NewMatchCommand(&RootOptions{Format: "text"}), artifact, events)
	require.NoError(t, err)
	assert.Equal(t, "1\tpartial\n2\tmatched\n", stdout)
}

func TestMatchYAML(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Extended)
	events := writeFile(t, "events.yaml", "- a: true\n- {b: true, a: false}\n")

	stdout, _, err := execute(t, NewMatchCommand(&RootOptions{Format: "text"}), artifact, events)
	require.NoError(t, err)
	assert.Equal(t, "1\tpartial horizon=1\n2\tmatched shortest=2 longest=2 horizon=2\n", stdout)
}

func TestMatchStdin(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Extended)

	cmd := NewMatchCommand(&RootOptions{Format: "text"})
	cmd.SetIn(strings.NewReader("\n" + sequenceEvents + "\n"))
	stdout, stderr, err := execute(t, cmd, artifact)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "1\tpartial horizon=1\n2\tmatched shortest=2 longest=2 horizon=2\n", stdout)
}

func TestMatchJSON(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Extended)
	events := writeFile(t, "events.jsonl", sequenceEvents)

	stdout, _, err := execute(t, NewMatchCommand(&RootOptions{Format: "json"}), artifact, events)
	require.NoError(t, err)

	var reports []EventReport
	sc := bufio.NewScanner(strings.NewReader(stdout))
	for sc.Scan() {
		var r EventReport
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		reports = append(reports, r)
	}
	require.Len(t, reports, 2)
	assert.Equal(t, EventReport{Seq: 1, Status: matcher.Partial, Horizon: 1}, reports[0])
	assert.Equal(t, EventReport{Seq: 2, Status: matcher.Matched, Shortest: 2, Longest: 2, Horizon: 2}, reports[1])
	assert.Contains(t, stdout, `"status":"matched"`)
}

func TestMatchMatchesOnly(t *testing.T) {
	artifact := writeArtifact(t, "a", sere.Extended)
	events := writeFile(t, "events.jsonl", `{"a": true}
{}
{"a": true}
`)

	stdout, _, err := execute(t, NewMatchCommand(&RootOptions{Format: "text"}), artifact, events, "--matches-only")
	require.NoError(t, err)
	assert.Equal(t, "1\tmatched shortest=1 longest=1 horizon=1\n3\tmatched shortest=1 longest=1 horizon=1\n", stdout)
}

func TestMatchUnknownPredicate(t *testing.T) {
	artifact := writeArtifact(t, "a ; b", sere.Extended)
	events := writeFile(t, "events.jsonl", `{"a": true, "c": true}
{"b": true}
`)

	stdout, stderr, err := execute(t, NewMatchCommand(&RootOptions{Format: "text", Verbose: true}), artifact, events)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2\tmatched")
	assert.Equal(t, 1, strings.Count(stderr, `Ignoring unknown predicate "c"`))

	_, stderr, err = execute(t, NewMatchCommand(&RootOptions{Format: "text"}), artifact, events, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, `Error [E008]: event 1: unknown predicate "c"`)
}

func TestMatchErrors(t *testing.T) {
	artifact := writeArtifact(t, "a", sere.Extended)
	garbage := writeFile(t, "garbage.sere", "not an artifact")

	tests := []struct {
		name   string
		args   []string
		events string
		code   string
	}{
		{"missing artifact", []string{"/nonexistent/a.sere"}, "", ErrCodeReadFailed},
		{"malformed artifact", []string{garbage}, "", ErrCodeArtifact},
		{"missing events", []string{artifact, "/nonexistent/events.jsonl"}, "", ErrCodeReadFailed},
		{"malformed event", []string{artifact}, "{\"a\": 1}\n", ErrCodeEvent},
		{"not an object", []string{artifact}, "{}\n[true]\n", ErrCodeEvent},
		{"bad events format", []string{artifact, "--events", "csv"}, "", ErrCodeUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewMatchCommand(&RootOptions{Format: "text"})
			cmd.SetIn(strings.NewReader(tt.events))
			_, stderr, err := execute(t, cmd, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stderr, "Error ["+tt.code+"]")
		})
	}
}

func TestEventFormat(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{EventsAuto, "events.yaml", EventsYAML},
		{EventsAuto, "EVENTS.YML", EventsYAML},
		{EventsAuto, "events.jsonl", EventsJSONL},
		{EventsAuto, "", EventsJSONL},
		{"", "events.txt", EventsJSONL},
		{EventsYAML, "", EventsYAML},
		{EventsJSONL, "events.yaml", EventsJSONL},
	}
	for _, tt := range tests {
		got, err := eventFormat(tt.format, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.format, tt.path)
	}

	_, err := eventFormat("xml", "events.xml")
	assert.Error(t, err)
}

func TestReadYAMLDocuments(t *testing.T) {
	stream := "- a: true\n---\n- b: true\n- {}\n"
	var seqs []int
	var events []Event
	err := readEvents(strings.NewReader(stream), EventsYAML, func(seq int, ev Event) error {
		seqs = append(seqs, seq)
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seqs)
	assert.Equal(t, Event{"b": true}, events[1])
	assert.Empty(t, events[2])
}
