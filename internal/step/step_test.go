// step_test.go --  This file is part of goNAMD project.
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
package step

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/config"
	"github.com/MirzaevaIV/goNAMD/internal/gamess"
	"github.com/MirzaevaIV/goNAMD/internal/gamesstest"
	"github.com/MirzaevaIV/goNAMD/internal/nac"
	"github.com/MirzaevaIV/goNAMD/internal/output"
)

// trajectory writes one H2 output per bond length and returns the paths.
func trajectory(t *testing.T, dists ...float64) ([]string, []gamess.Record) {
	t.Helper()
	dir := t.TempDir()
	var files []string
	var recs []gamess.Record
	for i, d := range dists {
		rec := gamesstest.H2(t, d)
		fname := filepath.Join(dir, fmt.Sprintf("step_%03d.log", i))
		gamesstest.Write(t, fname, rec)
		files = append(files, fname)
		recs = append(recs, rec)
	}
	return files, recs
}

func params(gmsOut string) config.Params {
	return config.Params{
		GmsOut:      gmsOut,
		DtNucl:      20,
		MinShift:    -1,
		MaxShift:    2,
		HOMO:        1,
		BasisOption: 1,
	}
}

func TestUnpack(t *testing.T) {
	files, recs := trajectory(t, 1.4)
	d, err := Unpack(files[0], true, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Len(t, d.AO, 4)
	assert.Equal(t, 4, d.Record.NBasis)
	assert.Equal(t, 1, d.Record.NOcc)
	assert.True(t, mat.EqualApprox(recs[0].C, d.Record.C, 1e-11))
	assert.True(t, mat.EqualApprox(recs[0].E, d.Record.E, 1e-10))
	assert.True(t, mat.EqualApprox(recs[0].Gradient, d.Record.Gradient, 1e-9))
	assert.Nil(t, d.Dipoles.X)
}

func TestUnpackErrors(t *testing.T) {
	_, err := Unpack(filepath.Join(t.TempDir(), "missing.log"), false, nil)
	require.Error(t, err)

	fname := filepath.Join(t.TempDir(), "empty.log")
	require.NoError(t, os.WriteFile(fname, []byte("nothing here\n"), 0644))
	_, err = Unpack(fname, false, nil)
	assert.True(t, errors.Is(err, gamess.ErrKeywordNotFound))
	assert.Contains(t, err.Error(), fname)
}

func TestAdvanceEndToEnd(t *testing.T) {
	files, recs := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	res, next, err := Advance(params(files[1]), prev, "1", zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, m := range []*mat.Dense{res.EFull, res.DFull, res.ERed, res.DRed} {
		r, c := m.Dims()
		assert.Equal(t, [2]int{4, 4}, [2]int{r, c})
	}
	// the window -1..2 around orbital 1 covers the whole space
	assert.True(t, mat.Equal(res.DFull, res.DRed))
	assert.True(t, mat.Equal(res.EFull, res.ERed))
	assert.Equal(t, 1, res.HOMO)

	assert.InDelta(t, 0.5*(recs[0].E.At(2, 2)+recs[1].E.At(2, 2)), res.EFull.At(2, 2), 1e-9)
	assert.True(t, mat.EqualApprox(res.DFull.T(), negate(res.DFull), 1e-12))
	assert.Greater(t, mat.Norm(res.DFull, 1), 0.0)

	I := mat.NewDiagDense(4, []float64{1, 1, 1, 1})
	assert.True(t, mat.EqualApprox(I, res.Overlaps.P11, 1e-8))
	assert.True(t, mat.EqualApprox(I, res.Overlaps.P22, 1e-8))

	assert.True(t, mat.EqualApprox(recs[1].Gradient, res.Gradient, 1e-9))
	require.NotNil(t, res.Data.Dipoles.Z)
	assert.True(t, mat.EqualApprox(res.Data.Dipoles.Z, res.Data.Dipoles.Z.T(), 1e-12))

	assert.True(t, mat.Equal(res.Data.Record.E, next.E))
	assert.True(t, mat.Equal(res.Data.Record.C, next.C))
	assert.Len(t, next.AO, 4)
}

func TestAdvanceReducedWindow(t *testing.T) {
	files, _ := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	p := params(files[1])
	p.MinShift, p.MaxShift = 0, 1
	res, _, err := Advance(p, prev, "1", nil)
	require.NoError(t, err)

	r, c := res.ERed.Dims()
	assert.Equal(t, [2]int{2, 2}, [2]int{r, c})
	r, c = res.DRed.Dims()
	assert.Equal(t, [2]int{2, 2}, [2]int{r, c})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, res.EFull.At(1+i, 1+j), res.ERed.At(i, j))
			assert.Equal(t, res.DFull.At(1+i, 1+j), res.DRed.At(i, j))
		}
	}
}

func TestAdvanceHOMOFromOutput(t *testing.T) {
	files, _ := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	p := params(files[1])
	p.HOMO, p.MinShift, p.MaxShift = -1, 0, 1
	res, _, err := Advance(p, prev, "1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.HOMO)
	assert.Equal(t, res.DFull.At(0, 1), res.DRed.At(0, 1))
}

func TestAdvanceCarriesState(t *testing.T) {
	files, recs := trajectory(t, 1.40, 1.45, 1.50)
	s1, err := Initial(files[0], false, nil)
	require.NoError(t, err)
	s1Copy := s1.Copy()

	res1, s2, err := Advance(params(files[1]), s1, "1", nil)
	require.NoError(t, err)
	res2, s3, err := Advance(params(files[2]), s2, "2", nil)
	require.NoError(t, err)

	// second step averages E(t2) and E(t3), not E(t1)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.5*(recs[1].E.At(i, i)+recs[2].E.At(i, i)), res2.EFull.At(i, i), 1e-9)
	}
	assert.NotSame(t, res1.EFull, res2.EFull)

	// earlier snapshots are untouched
	assert.True(t, mat.Equal(s1Copy.E, s1.E))
	assert.True(t, mat.Equal(s1Copy.C, s1.C))
	assert.Equal(t, s1Copy.AO, s1.AO)

	// the returned snapshot owns its storage
	s3.E.Set(0, 0, 100)
	s3.AO[0].PGs[0].Alpha = -1
	assert.NotEqual(t, 100.0, res2.Data.Record.E.At(0, 0))
	assert.NotEqual(t, -1.0, res2.Data.AO[0].PGs[0].Alpha)
}

func TestAdvanceDiagnosticsDoNotChangeResults(t *testing.T) {
	files, _ := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	plain, _, err := Advance(params(files[1]), prev, "1", nil)
	require.NoError(t, err)

	diagDir := t.TempDir()
	p := params(files[1])
	p.DebugMuOutput = true
	p.DebugDensmatOutput = true
	p.DebugGmsUnpack = true
	p.DiagDir = diagDir
	debug, _, err := Advance(p, prev, "1", zaptest.NewLogger(t))
	require.NoError(t, err)
	assertSameResult(t, plain, debug)

	for _, name := range []string{"mu_x_1", "mu_y_1", "mu_z_1", "P11_1", "P22_1", "P12_1", "P21_1"} {
		assert.FileExists(t, filepath.Join(diagDir, name))
	}

	// an unwritable diagnostic directory is only logged
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	p.DiagDir = filepath.Join(blocker, "diag")
	failed, _, err := Advance(p, prev, "1", zaptest.NewLogger(t))
	require.NoError(t, err)
	assertSameResult(t, plain, failed)
}

func TestAdvancePersist(t *testing.T) {
	files, _ := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	p := params(files[1])
	p.PrintMOHam = true
	p.MOHam = filepath.Join(t.TempDir(), "res") + "/"
	_, _, err = Advance(p, prev, "7", nil)
	require.NoError(t, err)
	for _, tag := range []string{output.FullRe, output.FullIm, output.ReducedRe, output.ReducedIm} {
		assert.FileExists(t, output.HamName(p.MOHam, tag, "7"))
	}

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	p.MOHam = blocker + "/res/"
	res, next, err := Advance(p, prev, "8", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, output.ErrPersist))
	require.NotNil(t, res.DRed)
	require.NotNil(t, next.E)
}

func TestAdvanceFailureKeepsState(t *testing.T) {
	files, _ := trajectory(t, 1.40, 1.45)
	prev, err := Initial(files[0], false, nil)
	require.NoError(t, err)

	t.Run("range error", func(t *testing.T) {
		p := params(files[1])
		p.MinShift = -3
		res, got, err := Advance(p, prev, "1", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, nac.ErrBelowLowest))
		assert.Nil(t, res.DRed)
		assert.Nil(t, res.EFull)
		assert.Same(t, prev.E, got.E)
		assert.Same(t, prev.C, got.C)
	})

	t.Run("oversized window", func(t *testing.T) {
		p := params(files[1])
		p.MinShift, p.MaxShift = -1, 4
		_, got, err := Advance(p, prev, "1", nil)
		assert.True(t, errors.Is(err, nac.ErrOutOfRange))
		assert.Same(t, prev.E, got.E)
	})

	t.Run("label escaping the output directories", func(t *testing.T) {
		dir := t.TempDir()
		p := params(files[1])
		p.PrintMOHam = true
		p.MOHam = filepath.Join(dir, "res", "ham") + "_"
		p.DebugMuOutput = true
		p.DiagDir = filepath.Join(dir, "diag")
		res, got, err := Advance(p, prev, "../../x", nil)
		assert.True(t, errors.Is(err, output.ErrBadLabel))
		assert.Nil(t, res.DRed)
		assert.Same(t, prev.E, got.E)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing output", func(t *testing.T) {
		_, got, err := Advance(params(files[1]+".missing"), prev, "1", nil)
		require.Error(t, err)
		assert.Same(t, prev.C, got.C)
	})

	t.Run("mismatched previous snapshot", func(t *testing.T) {
		bad := prev.Copy()
		bad.AO = bad.AO[:2]
		_, got, err := Advance(params(files[1]), bad, "1", nil)
		assert.True(t, errors.Is(err, nac.ErrDimension))
		assert.Same(t, bad.E, got.E)
	})
}

func assertSameResult(t *testing.T, want, got Result) {
	t.Helper()
	assert.True(t, mat.Equal(want.Gradient, got.Gradient))
	assert.True(t, mat.Equal(want.EFull, got.EFull))
	assert.True(t, mat.Equal(want.DFull, got.DFull))
	assert.True(t, mat.Equal(want.ERed, got.ERed))
	assert.True(t, mat.Equal(want.DRed, got.DRed))
	assert.True(t, mat.Equal(want.Data.Dipoles.X, got.Data.Dipoles.X))
}

func negate(m mat.Matrix) *mat.Dense {
	var res mat.Dense
	res.Scale(-1, m)
	return &res
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
