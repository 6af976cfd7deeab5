package driver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"paracl/driver"
	"paracl/report"
)

func TestRunEndToEnd(t *testing.T) {
	var out strings.Builder
	d, err := driver.Run("t.cl", "print 2 + 3 * 4;", strings.NewReader(""), &out)
	require.NoError(t, err)
	require.False(t, d.HasErrors())
	require.Equal(t, "14\n", out.String())
}

func TestRunStopsBeforeCodegenOnCompileError(t *testing.T) {
	var out strings.Builder
	d, err := driver.Run("t.cl", "print undefined;", strings.NewReader(""), &out)
	require.NoError(t, err, "a compile error must not reach the VM at all")
	require.True(t, d.HasErrors())
	require.Len(t, d.Errors(), 1)
	require.Equal(t, report.UndeclaredIdentifier, d.Errors()[0].Kind)
	require.Empty(t, out.String())
}

func TestRunSurfacesRuntimeError(t *testing.T) {
	var out strings.Builder
	d, err := driver.Run("t.cl", "a = 1 / 0;", strings.NewReader(""), &out)
	require.False(t, d.HasErrors())
	require.Error(t, err)
}

func TestBreakOutsideLoopIsCollectedNotPanicked(t *testing.T) {
	var out strings.Builder
	d, err := driver.Run("t.cl", "break;", strings.NewReader(""), &out)
	require.NoError(t, err)
	require.True(t, d.HasErrors())
	require.Equal(t, report.OutOfLoopStatement, d.Errors()[0].Kind)
}

func TestUnassignableExpressionIsCollected(t *testing.T) {
	var out strings.Builder
	d, err := driver.Run("t.cl", "5 = x;", strings.NewReader(""), &out)
	require.NoError(t, err)
	require.True(t, d.HasErrors())
	require.Equal(t, report.UnassignableExpression, d.Errors()[0].Kind)
}
