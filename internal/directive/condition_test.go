package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndEvalDefined(t *testing.T) {
	c, err := ParseCondition("defined(FOO)")
	require.NoError(t, err)
	assert.True(t, c.Eval(map[string]bool{"FOO": true}, nil))
	assert.False(t, c.Eval(map[string]bool{}, nil))
}

func TestParseAndEvalNegation(t *testing.T) {
	c, err := ParseCondition("!defined(FOO)")
	require.NoError(t, err)
	assert.False(t, c.Eval(map[string]bool{"FOO": true}, nil))
	assert.True(t, c.Eval(map[string]bool{}, nil))
}

func TestParseAndEvalLogical(t *testing.T) {
	c, err := ParseCondition("defined(FOO) && defined(BAR)")
	require.NoError(t, err)
	assert.True(t, c.Eval(map[string]bool{"FOO": true, "BAR": true}, nil))
	assert.False(t, c.Eval(map[string]bool{"FOO": true}, nil))

	c2, err := ParseCondition("defined(FOO) || defined(BAR)")
	require.NoError(t, err)
	assert.True(t, c2.Eval(map[string]bool{"BAR": true}, nil))
}

func TestParseAndEvalComparison(t *testing.T) {
	c, err := ParseCondition("VERSION >= 2")
	require.NoError(t, err)
	assert.True(t, c.Eval(nil, map[string]int{"VERSION": 3}))
	assert.False(t, c.Eval(nil, map[string]int{"VERSION": 1}))
}

func TestParseParenthesized(t *testing.T) {
	c, err := ParseCondition("(defined(FOO) || defined(BAR)) && defined(BAZ)")
	require.NoError(t, err)
	assert.True(t, c.Eval(map[string]bool{"FOO": true, "BAZ": true}, nil))
	assert.False(t, c.Eval(map[string]bool{"FOO": true}, nil))
}
