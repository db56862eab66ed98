package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/backprop/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionAndUsage(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, 0, run([]string{"version"}, &out, &errOut))
	assert.Equal(t, "backprop "+version+"\n", out.String())

	out.Reset()
	assert.Equal(t, 0, run(nil, &out, &errOut))
	assert.Contains(t, out.String(), "Commands:")

	assert.Equal(t, 2, run([]string{"serve"}, &out, &errOut))
	assert.Contains(t, errOut.String(), `unknown command "serve"`)
}

func TestCheckCommand(t *testing.T) {
	var out, errOut bytes.Buffer

	code := run([]string{"check", "-in", "6", "-out", "3", "-v"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "all 12 cases passed")
	assert.Contains(t, out.String(), "Linear(6→3) → EuclideanLoss(3)")
	assert.Contains(t, out.String(), "linear.weight")

	assert.Equal(t, 2, run([]string{"check", "-in", "0"}, &out, &errOut))
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	results := filepath.Join(dir, "results.txt")

	var out, errOut bytes.Buffer
	code := run([]string{"run",
		"-q",
		"-arch", "linear,sigmoid-2",
		"-trials", "2",
		"-epochs", "5",
		"-samples", "60",
		"-workers", "2",
		"-results", results,
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	assert.Contains(t, out.String(), "linear")
	assert.Contains(t, out.String(), "sigmoid-2")

	f, err := os.Open(results)
	require.NoError(t, err)
	defer f.Close()
	rows, err := experiment.ReadRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "linear", rows[0].Architecture)
	assert.Equal(t, 9, rows[0].Parameters)
	assert.Equal(t, rows[0].RunID, rows[3].RunID)
	assert.True(t, strings.Contains(out.String(), rows[0].RunID.String()))
}

func TestRunCommand_DataFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			sb.WriteString("-1.0, -0.5, 0\n")
		} else {
			sb.WriteString("1.0, 0.5, 1\n")
		}
	}
	data := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(data, []byte(sb.String()), 0o600))

	var out, errOut bytes.Buffer
	code := run([]string{"run", "-q", "-arch", "linear", "-trials", "1", "-epochs", "3", "-data", data}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	_, err := os.Stat(filepath.Join(dir, "results.txt"))
	assert.NoError(t, err)
}

func TestRunCommand_BadInput(t *testing.T) {
	chdir(t, t.TempDir())
	var out, errOut bytes.Buffer

	assert.Equal(t, 2, run([]string{"run", "-arch", "resnet"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"run", "-optimizer", "rmsprop"}, &out, &errOut))
	assert.Equal(t, 1, run([]string{"run", "-data", "missing.csv"}, &out, &errOut))
}

func TestRunCommand_FlagsOverrideEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BACKPROP_EPOCHS", "ten")
	t.Setenv("BACKPROP_TRIALS", "0")

	args := []string{"run", "-q", "-arch", "linear", "-samples", "30"}

	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(args, &out, &errOut))
	assert.Contains(t, errOut.String(), "BACKPROP_EPOCHS")

	errOut.Reset()
	assert.Equal(t, 2, run(append(args, "-epochs", "2"), &out, &errOut))
	assert.Contains(t, errOut.String(), "BACKPROP_TRIALS")

	errOut.Reset()
	code := run(append(args, "-epochs", "2", "-trials", "1"), &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
}
