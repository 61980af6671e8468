package diagnostic_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

func TestList_Accumulates(t *testing.T) {
	list := diagnostic.NewList()
	assert.False(t, list.HasErrors())

	list.Warnf(diagnostic.NamespaceConflict, span.New(0, 3), "<%s> out of place", "circle")
	assert.False(t, list.HasErrors())

	list.Errorf(diagnostic.UnresolvedGroupBinding, span.New(10, 20), "cannot trace %q", "foo.bar")
	assert.True(t, list.HasErrors())

	require.Len(t, list.Diagnostics, 2)
	assert.Equal(t, `cannot trace "foo.bar"`, list.Diagnostics[1].Message)
	assert.Equal(t, diagnostic.SeverityWarning, list.Diagnostics[0].Severity)
}

func TestList_ErrorfRelated(t *testing.T) {
	list := diagnostic.NewList()
	first := span.New(5, 10)
	list.ErrorfRelated(diagnostic.DuplicateBinding, span.New(30, 35), first,
		"%q is already declared in this scope", "count")

	require.Len(t, list.Diagnostics, 1)
	d := list.Diagnostics[0]
	require.NotNil(t, d.Related)
	assert.Equal(t, first, *d.Related)
	assert.Equal(t, span.New(30, 35), d.Span)
}

func TestList_ByCode(t *testing.T) {
	list := diagnostic.NewList()
	list.Errorf(diagnostic.DuplicateBinding, span.Empty(0), "first")
	list.Warnf(diagnostic.NamespaceConflict, span.Empty(0), "second")
	list.Errorf(diagnostic.DuplicateBinding, span.Empty(0), "third")

	dups := list.ByCode(diagnostic.DuplicateBinding)
	require.Len(t, dups, 2)
	assert.Equal(t, "first", dups[0].Message)
	assert.Equal(t, "third", dups[1].Message)
	assert.Empty(t, list.ByCode(diagnostic.InternalError))
}

func TestList_Err(t *testing.T) {
	list := diagnostic.NewList()
	assert.NoError(t, list.Err(), "no diagnostics, no error")

	list.Warnf(diagnostic.NamespaceConflict, span.Empty(0), "only a warning")
	assert.NoError(t, list.Err(), "warnings do not fold into the error")

	list.Errorf(diagnostic.DuplicateBinding, span.New(1, 2), "boom")
	list.Errorf(diagnostic.UnresolvedGroupBinding, span.New(3, 4), "bang")
	err := list.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "bang")
}

func TestJSONFormatter(t *testing.T) {
	source := "hello\nworld"
	list := diagnostic.NewList()
	list.Errorf(diagnostic.DuplicateBinding, span.New(6, 11), "w is taken")
	list.Hintf(diagnostic.NamespaceConflict, span.New(0, 5), "just a hint")

	data, err := diagnostic.NewJSONFormatter(source).Format(list)
	require.NoError(t, err)

	var out []struct {
		Code     string `json:"code"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Range    struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
			End struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"end"`
		} `json:"range"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)

	assert.Equal(t, "duplicate-binding", out[0].Code)
	assert.Equal(t, 1, out[0].Severity)
	assert.Equal(t, 1, out[0].Range.Start.Line)
	assert.Equal(t, 0, out[0].Range.Start.Character)
	assert.Equal(t, 1, out[0].Range.End.Line)
	assert.Equal(t, 5, out[0].Range.End.Character)

	assert.Equal(t, 4, out[1].Severity, "hints rank below warnings")
}

func TestJSONFormatter_NilList(t *testing.T) {
	_, err := diagnostic.NewJSONFormatter("").Format(nil)
	require.Error(t, err)
}
