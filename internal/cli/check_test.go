package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stackjs/internal/compiler"
)

func TestCheckClean(t *testing.T) {
	stdout, _, err := execute(t, "check", "-e", "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "✓ <expr>: no errors, 0 warning(s)\n", stdout)
}

func TestCheckIdentifier(t *testing.T) {
	stdout, _, err := execute(t, "check", "-e", "foo")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t,
		"<expr>: error [E301] root: identifier \"foo\" cannot be lowered\n"+
			"✗ <expr>: 1 error(s), 0 warning(s)\n",
		stdout)
}

// Unlike compile, check reports every problem rather than the first.
func TestCheckReportsAllProblems(t *testing.T) {
	stdout, _, err := execute(t, "check", "-e", "a + 1; b")
	require.Error(t, err)
	assert.Contains(t, stdout, `statements[0].expression.left: identifier "a" cannot be lowered`)
	assert.Contains(t, stdout, `statements[1].expression: identifier "b" cannot be lowered`)
	assert.Contains(t, stdout, "✗ <expr>: 2 error(s), 0 warning(s)\n")
}

func TestCheckMethodArgsWarning(t *testing.T) {
	path := writeFile(t, t.TempDir(), "method.json", `{
  "type": "method_definition",
  "name": "add",
  "args": [{"type": "identifier", "name": "x"}],
  "body": [{"type": "integer_literal", "value": 1}]
}`)

	stdout, _, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "warning [E303] args:")
	assert.Contains(t, stdout, "no errors, 1 warning(s)")
}

func TestCheckJSON(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		stdout, _, err := execute(t, "check", "-e", "1", "--format", "json")
		require.NoError(t, err)

		var result CheckResult
		resp := decodeResponse(t, stdout, &result)
		assert.Equal(t, "ok", resp.Status)
		assert.Empty(t, result.Problems)
		assert.Equal(t, 0, result.Errors)
	})

	t.Run("errors", func(t *testing.T) {
		stdout, _, err := execute(t, "check", "-e", "foo", "--format", "json")
		require.Error(t, err)

		resp := decodeResponse(t, stdout, nil)
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, compiler.ErrUnsupportedNode, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, `identifier "foo"`)
	})
}

func TestCheckParseError(t *testing.T) {
	stdout, _, err := execute(t, "check", "-e", "1 +")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E202]:")
}
