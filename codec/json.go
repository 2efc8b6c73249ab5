package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
)

type jsonArtifact struct {
	Format      string          `json:"format"`
	Version     int             `json:"version"`
	Atomics     []string        `json:"atomics"`
	States      int             `json:"states"`
	Start       uint32          `json:"start"`
	Accepting   []uint32        `json:"accepting"`
	Transitions json.RawMessage `json:"transitions"`
}

// jsonEdge is an extended-target edge; guards are half-open letter ranges.
type jsonEdge struct {
	Guard [][2]int `json:"guard"`
	Next  uint32   `json:"next"`
}

func encodeJSON(a *artifact) ([]byte, error) {
	var trans any
	if a.target == compiler.Simple {
		rows := make([][][2]uint32, len(a.runs))
		for q, row := range a.runs {
			rows[q] = make([][2]uint32, len(row))
			for i, r := range row {
				rows[q][i] = [2]uint32{r.target, r.count}
			}
		}
		trans = rows
	} else {
		rows := make([][]jsonEdge, len(a.edges))
		for q, es := range a.edges {
			rows[q] = make([]jsonEdge, len(es))
			for i, e := range es {
				g := make([][2]int, len(e.ranges))
				for k, r := range e.ranges {
					g[k] = [2]int{r.Lo, r.Hi}
				}
				rows[q][i] = jsonEdge{Guard: g, Next: e.next}
			}
		}
		trans = rows
	}
	raw, err := json.Marshal(trans)
	if err != nil {
		return nil, err
	}
	accepting := a.accepting
	if accepting == nil {
		accepting = []uint32{}
	}
	atomics := a.atomics
	if atomics == nil {
		atomics = []string{}
	}
	out, err := json.MarshalIndent(jsonArtifact{
		Format:      a.target.String(),
		Version:     Version,
		Atomics:     atomics,
		States:      a.states,
		Start:       a.start,
		Accepting:   accepting,
		Transitions: raw,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// strictUnmarshal decodes exactly one JSON value with no unknown fields and
// no trailing data.
func strictUnmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return fmt.Errorf("trailing data")
		}
		return err
	}
	return nil
}

func decodeJSON(data []byte) (*artifact, error) {
	var ja jsonArtifact
	if err := strictUnmarshal(data, &ja); err != nil {
		return nil, &FormatError{Encoding: JSON, Msg: "parse", Err: err}
	}
	if ja.Version != Version {
		return nil, formatErrorf(JSON, "unsupported version %d", ja.Version)
	}
	if ja.Atomics == nil || ja.Accepting == nil || ja.Transitions == nil {
		return nil, formatErrorf(JSON, "missing atomics, accepting or transitions")
	}
	target, err := compiler.ParseTarget(ja.Format)
	if err != nil {
		return nil, &FormatError{Encoding: JSON, Msg: "format tag", Err: err}
	}
	a := &artifact{
		target:    target,
		atomics:   ja.Atomics,
		states:    ja.States,
		start:     ja.Start,
		accepting: ja.Accepting,
	}
	switch target {
	case compiler.Simple:
		var rows [][][2]uint32
		if err := strictUnmarshal(ja.Transitions, &rows); err != nil {
			return nil, &FormatError{Encoding: JSON, Msg: "simple transitions", Err: err}
		}
		a.runs = make([][]run, len(rows))
		for q, row := range rows {
			a.runs[q] = make([]run, len(row))
			for i, r := range row {
				a.runs[q][i] = run{target: r[0], count: r[1]}
			}
		}
	case compiler.Extended:
		var rows [][]jsonEdge
		if err := strictUnmarshal(ja.Transitions, &rows); err != nil {
			return nil, &FormatError{Encoding: JSON, Msg: "extended transitions", Err: err}
		}
		a.edges = make([][]edge, len(rows))
		for q, es := range rows {
			a.edges[q] = make([]edge, len(es))
			for i, e := range es {
				rs := make([]alphabet.Range, len(e.Guard))
				for k, g := range e.Guard {
					rs[k] = alphabet.Range{Lo: g[0], Hi: g[1]}
				}
				a.edges[q][i] = edge{next: e.Next, ranges: rs}
			}
		}
	}
	return a, nil
}
