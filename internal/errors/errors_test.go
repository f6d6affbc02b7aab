package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := InvalidConfigf("strand %q", "sideways")
	wrapped := Wrap(err, "nucleotide search")

	assert.True(t, Is(wrapped, ErrInvalidConfig))
	assert.False(t, Is(wrapped, ErrIO))
	assert.Contains(t, wrapped.Error(), `strand "sideways"`)
}

func TestIOfNil(t *testing.T) {
	assert.NoError(t, IOf(nil, "open %s", "x"))
}

func TestIOfMarksAndKeepsCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := IOf(cause, "open %s", "db.fa")
	require.Error(t, err)
	assert.True(t, Is(err, ErrIO))
	assert.Contains(t, err.Error(), "open db.fa: no such file")
}

func TestHintsAreRetrievable(t *testing.T) {
	err := WithHint(Formatf("bad header"), "records must start with '>' or '@'")
	assert.True(t, Is(err, ErrFormat))
	assert.Equal(t, []string{"records must start with '>' or '@'"}, GetAllHints(err))
}
