package ui_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/ui"
)

func TestStatusStylerLeavesNonTerminalOutputPlain(testInstance *testing.T) {
	regularFile, createError := os.Create(filepath.Join(testInstance.TempDir(), "report.txt"))
	require.NoError(testInstance, createError)
	testInstance.Cleanup(func() {
		require.NoError(testInstance, regularFile.Close())
	})

	testCases := []struct {
		name   string
		styler ui.StatusStyler
	}{
		{name: "buffer_writer", styler: ui.NewStatusStyler(&bytes.Buffer{})},
		{name: "regular_file_writer", styler: ui.NewStatusStyler(regularFile)},
		{name: "zero_value", styler: ui.StatusStyler{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.False(testInstance, testCase.styler.Enabled())
			require.Equal(testInstance, "CHANGED", testCase.styler.Render("CHANGED"))
			require.Equal(testInstance, "OK   ", testCase.styler.RenderPadded("OK", 5))
			require.Equal(testInstance, "MISSING", testCase.styler.RenderPadded("MISSING", 4))
		})
	}
}
