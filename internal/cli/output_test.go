package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Success(map[string]int{"states": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"states": float64(3)}, resp.Data)
	assert.Nil(t, resp.Error)

	buf.Reset()
	f.Format = "text"
	require.NoError(t, f.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestFormatterError(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	require.NoError(t, f.Error(ErrCodeSyntax, "syntax error at 1:3", SyntaxDetails{Line: 1, Column: 3, Offset: 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSyntax, resp.Error.Code)
	assert.Equal(t, map[string]any{"line": float64(1), "column": float64(3), "offset": float64(2)}, resp.Error.Details)
	assert.Empty(t, errOut.String())

	out.Reset()
	f = &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut, Verbose: true}
	require.NoError(t, f.Error(ErrCodeSyntax, "syntax error at 1:3", SyntaxDetails{Line: 1, Column: 3}))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error [E003]: syntax error at 1:3\nDetails: line 1, column 3\n", errOut.String())
}

func TestFormatterRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Record(map[string]int{"seq": 1}))
	require.NoError(t, f.Record(map[string]int{"seq": 2}))
	assert.Equal(t, "{\"seq\":1}\n{\"seq\":2}\n", buf.String())
}

func TestVerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}
	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String())

	f.ErrWriter = nil
	f.VerboseLog("fallback")
	assert.Equal(t, "fallback\n", out.String())
}

func TestFail(t *testing.T) {
	errOut := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: errOut}
	err := f.fail(ErrCodeReadFailed, "reading artifact", nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E005: reading artifact", err.Error())
	assert.Equal(t, "Error [E005]: reading artifact\n", errOut.String())
}
