// gamesstest.go --  This file is part of goNAMD project.
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

// Package gamesstest builds synthetic GAMESS outputs for tests.
package gamesstest

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/basis"
	"github.com/MirzaevaIV/goNAMD/internal/gamess"
)

// H2 returns H2 in 6-31G along z with bond length dist (bohr): 4 AOs, 4 MOs,
// one occupied orbital. The MOs are the Lowdin orthonormalised AOs so that
// the same-geometry MO overlap is exactly unity.
func H2(t testing.TB, dist float64) gamess.Record {
	t.Helper()
	shells := func(atom int) []gamess.Shell {
		return []gamess.Shell{
			{Atom: atom, Type: "S",
				Exponents: []float64{0.1873113696e+02, 0.2825394365e+01, 0.6401216923e+00},
				Coeffs:    [][]float64{{0.3349460434e-01}, {0.2347269535e+00}, {0.8137573261e+00}}},
			{Atom: atom, Type: "S",
				Exponents: []float64{0.1612777588e+00},
				Coeffs:    [][]float64{{1.0}}},
		}
	}
	rec := gamess.Record{
		Atoms: []gamess.Atom{
			{Symbol: "H", Charge: 1, Coords: [3]float64{0, 0, -dist / 2}},
			{Symbol: "H", Charge: 1, Coords: [3]float64{0, 0, dist / 2}},
		},
		Shells: append(shells(0), shells(1)...),
		NBasis: 4,
		NOcc:   1,
	}
	aos, err := basis.FromRecord(rec, false, nil)
	require.NoError(t, err)
	rec.C = Lowdin(t, basis.Overlap(aos, aos))

	rec.E = mat.NewDense(4, 4, nil)
	for i, e := range []float64{-0.59, 0.21, 0.98, 1.65} {
		rec.E.Set(i, i, e+0.05*(dist-1.4)*float64(i+1))
	}
	f := 0.1 * (dist - 1.4)
	rec.Gradient = mat.NewDense(2, 3, []float64{0, 0, -f, 0, 0, f})
	return rec
}

// Lowdin returns S^{-1/2}.
func Lowdin(t testing.TB, S *mat.Dense) *mat.Dense {
	t.Helper()
	n, _ := S.Dims()
	var eigsym mat.EigenSym
	ok := eigsym.Factorize(mat.NewSymDense(n, mat.DenseCopyOf(S).RawMatrix().Data), true)
	require.True(t, ok, "S eigendecomposition failed")
	var ev mat.Dense
	eigsym.VectorsTo(&ev)
	vals := eigsym.Values(nil)
	for i := range vals {
		vals[i] = 1 / math.Sqrt(vals[i])
	}
	var res mat.Dense
	res.Mul(&ev, mat.NewDiagDense(n, vals))
	res.Mul(&res, ev.T())
	return &res
}

// Format renders rec the way GAMESS prints the sections the extractor reads.
func Format(rec gamess.Record) string {
	var b strings.Builder
	b.WriteString(" ATOM      ATOMIC                      COORDINATES (BOHR)\n")
	b.WriteString("           CHARGE         X                   Y                   Z\n")
	for _, a := range rec.Atoms {
		fmt.Fprintf(&b, " %-8s%6.1f%20.10f%20.10f%20.10f\n", a.Symbol, a.Charge, a.Coords[0], a.Coords[1], a.Coords[2])
	}
	b.WriteString("\n     ATOMIC BASIS SET\n     ----------------\n")
	b.WriteString("  SHELL TYPE  PRIMITIVE        EXPONENT          CONTRACTION COEFFICIENT(S)\n")
	atom, prim := -1, 0
	for n, s := range rec.Shells {
		for atom < s.Atom {
			atom++
			fmt.Fprintf(&b, "\n %s\n", rec.Atoms[atom].Symbol)
		}
		b.WriteString("\n")
		for k, e := range s.Exponents {
			prim++
			fmt.Fprintf(&b, "%7d   %s%8d%22.10f", n+1, s.Type, prim, e)
			for _, c := range s.Coeffs[k] {
				fmt.Fprintf(&b, "%18.12f", c)
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\n TOTAL NUMBER OF BASIS SET SHELLS             =%5d\n", len(rec.Shells))
	fmt.Fprintf(&b, " NUMBER OF CARTESIAN GAUSSIAN BASIS FUNCTIONS =%5d\n", rec.NBasis)
	fmt.Fprintf(&b, " NUMBER OF OCCUPIED ORBITALS (ALPHA)          =%5d\n", rec.NOcc)

	b.WriteString("\n          ------------\n          EIGENVECTORS\n          ------------\n")
	nao, nmo := rec.C.Dims()
	for start := 0; start < nmo; start += 5 {
		end := start + 5
		if end > nmo {
			end = nmo
		}
		b.WriteString("\n                ")
		for j := start; j < end; j++ {
			fmt.Fprintf(&b, "%16d", j+1)
		}
		b.WriteString("\n                ")
		for j := start; j < end; j++ {
			fmt.Fprintf(&b, "%16.10f", rec.E.At(j, j))
		}
		b.WriteString("\n                ")
		for j := start; j < end; j++ {
			fmt.Fprintf(&b, "%16s", "A")
		}
		b.WriteString("\n")
		for i := 0; i < nao; i++ {
			fmt.Fprintf(&b, "%5d  %s %2d  S ", i+1, "X", 1)
			for j := start; j < end; j++ {
				fmt.Fprintf(&b, "%16.12f", rec.C.At(i, j))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(" ...... END OF RHF CALCULATION ......\n\n")

	b.WriteString("                         ----------------------\n")
	b.WriteString("                         GRADIENT OF THE ENERGY\n")
	b.WriteString("                         ----------------------\n\n")
	b.WriteString(" UNITS ARE HARTREE/BOHR    E'X               E'Y               E'Z \n")
	for a := range rec.Atoms {
		fmt.Fprintf(&b, "%5d %-8s%18.9f%18.9f%18.9f\n", a+1, rec.Atoms[a].Symbol,
			rec.Gradient.At(a, 0), rec.Gradient.At(a, 1), rec.Gradient.At(a, 2))
	}
	return b.String()
}

// Write stores Format(rec) at path.
func Write(t testing.TB, path string, rec gamess.Record) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(Format(rec)), 0644))
}
