package series

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAcceleration(t *testing.T) {
	input := `-1.5 0.1 0.2 0.3
0.0 -0.5 0.5 1

0.02 1e-3 2 3
`
	acc, err := ReadAcceleration(strings.NewReader(input), "mem")
	require.NoError(t, err)
	require.Len(t, acc.Samples, 3)

	assert.Equal(t, Sample{Time: -1.5, X: 0.1, Y: 0.2, Z: 0.3}, acc.Samples[0])
	assert.Equal(t, Sample{Time: 0.02, X: 1e-3, Y: 2, Z: 3}, acc.Samples[2])
}

func TestReadAccelerationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing column", "0 1 2\n", "expected 4 columns, got 3"},
		{"bad number", "0 1 2 x\n", `invalid number "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAcceleration(strings.NewReader(tt.input), "acc.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataFormat)
			assert.Contains(t, err.Error(), "acc.txt:1")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReadLabels(t *testing.T) {
	input := "0 0\n30 2\n60 -1\n90 5\n"

	labels, err := ReadLabels(strings.NewReader(input), "labels")
	require.NoError(t, err)
	require.Len(t, labels.Items, 4)

	assert.Equal(t, Label{Time: 30, Stage: 2}, labels.Items[1])
	assert.Equal(t, []float64{30, 90}, labels.TimesWhere(func(s int) bool { return s > 0 }))

	_, err = ReadLabels(strings.NewReader("0 1.5\n"), "labels")
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	accPath := filepath.Join(dir, "7_acceleration.txt")
	labelPath := filepath.Join(dir, "7_labeled_sleep.txt")
	require.NoError(t, os.WriteFile(accPath, []byte("0 1 0 0\n1 0 1 0\n"), 0o644))
	require.NoError(t, os.WriteFile(labelPath, []byte("0 0\n"), 0o644))

	acc, err := ReadAccelerationFile(accPath, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", acc.Subject)
	assert.Len(t, acc.Samples, 2)

	labels, err := ReadLabelsFile(labelPath, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", labels.Subject)

	_, err = ReadAccelerationFile(filepath.Join(dir, "missing.txt"), "7")
	assert.Error(t, err)
}
