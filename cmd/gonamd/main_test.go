// main_test.go --  This file is part of goNAMD project.
// Mirzaeva Irina, 2023
//
//	goNAMD is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MirzaevaIV/goNAMD/internal/config"
	"github.com/MirzaevaIV/goNAMD/internal/gamesstest"
	"github.com/MirzaevaIV/goNAMD/internal/output"
)

func writeTrajectory(t *testing.T, dir string, dists ...float64) string {
	t.Helper()
	for i, d := range dists {
		gamesstest.Write(t, filepath.Join(dir, fmt.Sprintf("step_%03d.log", i)), gamesstest.H2(t, d))
	}
	return filepath.Join(dir, "step_*.log")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	glob := writeTrajectory(t, dir, 1.40, 1.45, 1.50)
	res := filepath.Join(dir, "res") + "/"
	logFile := filepath.Join(dir, "run.log")

	cfg := fmt.Sprintf(`
trajectory = %q
dt_nucl = 20.0
min_shift = 0
max_shift = 1
HOMO = 0
print_mo_ham = 1
mo_ham = %q
log_file = %q
`, glob, res, logFile)
	cfgFile := filepath.Join(dir, "params.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0644))

	out, err := execute(t, "run", "--config", cfgFile, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "2 steps done")

	for _, label := range []string{"1", "2"} {
		for _, tag := range []string{output.FullRe, output.FullIm, output.ReducedRe, output.ReducedIm} {
			assert.FileExists(t, output.HamName(res, tag, label))
		}
	}
	assert.NoFileExists(t, output.HamName(res, output.FullRe, "3"))

	log, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(log), "grad_norm")
	assert.Contains(t, string(log), "run")
}

func TestRunCommandFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	glob := writeTrajectory(t, dir, 1.40, 1.45)
	cfgFile := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("trajectory: none/*.log\nHOMO: 0\n"), 0644))

	out, err := execute(t, "run", "-c", cfgFile,
		"--trajectory", glob,
		"--min_shift", "0",
		"--log_file", filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 steps done")
}

func TestRunCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--dt_nucl=-1", "--log_file", filepath.Join(dir, "run.log"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestRunTrajectory(t *testing.T) {
	base := config.Params{DtNucl: 20, MinShift: 0, MaxShift: 1, HOMO: 0, BasisOption: 1}

	t.Run("unset", func(t *testing.T) {
		_, err := runTrajectory(base, zaptest.NewLogger(t))
		assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	})

	t.Run("single file", func(t *testing.T) {
		p := base
		p.Trajectory = writeTrajectory(t, t.TempDir(), 1.4)
		_, err := runTrajectory(p, zaptest.NewLogger(t))
		assert.True(t, errors.Is(err, ErrShortTrajectory))
	})

	t.Run("bad pattern", func(t *testing.T) {
		p := base
		p.Trajectory = "[-"
		_, err := runTrajectory(p, zaptest.NewLogger(t))
		assert.True(t, errors.Is(err, filepath.ErrBadPattern))
	})

	t.Run("broken step stops the run", func(t *testing.T) {
		dir := t.TempDir()
		p := base
		p.Trajectory = writeTrajectory(t, dir, 1.40, 1.45, 1.50)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "step_002.log"), []byte("truncated\n"), 0644))
		n, err := runTrajectory(p, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("unwritable results do not stop the run", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		p := base
		p.Trajectory = writeTrajectory(t, dir, 1.40, 1.45, 1.50)
		p.PrintMOHam = true
		p.MOHam = blocker + "/res/"
		n, err := runTrajectory(p, zaptest.NewLogger(t))
		assert.Equal(t, 2, n)
		assert.True(t, errors.Is(err, output.ErrPersist))
	})
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	writeTrajectory(t, dir, 1.4)
	out, err := execute(t, "inspect", filepath.Join(dir, "step_000.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "basis functions         4")
	assert.Contains(t, out, "occupied orbitals       1")
	assert.Contains(t, out, "-0.59")

	_, err = execute(t, "inspect", filepath.Join(dir, "missing.log"))
	assert.Error(t, err)
	_, err = execute(t, "inspect")
	assert.Error(t, err)
}
