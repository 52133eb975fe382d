package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExitError_Messages(t *testing.T) {
	e := NewExitError(ExitFailure, "schema error")
	assert.Equal(t, "schema error", e.Error())
	assert.Equal(t, ExitFailure, e.Code)

	wrapped := WrapExitError(ExitCommandError, "open journal", errors.New("no such file"))
	assert.Equal(t, "open journal: no such file", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "no such file")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	// ExitError found through wrapping
	err := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOutputFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Emit(map[string]string{"result": "ok"}, func(io.Writer) error {
		t.Fatal("text func must not run for json")
		return nil
	})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["result"])
}

func TestOutputFormatter_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "yaml", Writer: buf}

	err := f.Emit(map[string]int{"steps": 3}, func(io.Writer) error {
		t.Fatal("text func must not run for yaml")
		return nil
	})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["steps"])
}

func TestOutputFormatter_TextDelegates(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := f.Emit(nil, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "rendered")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "rendered\n", buf.String())
}
