// ao.go --  This file is part of goNAMD project.
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

// Package basis builds Cartesian contracted Gaussian AOs from a GAMESS record
// and evaluates one-electron overlap and dipole integrals over them.
package basis

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/MirzaevaIV/goNAMD/internal/gamess"
)

var (
	ErrBasisMismatch    = errors.New("basis: AO count does not match record")
	ErrUnsupportedShell = errors.New("basis: unsupported shell type")
)

type PrimitiveGaussian struct {
	Alpha  float64
	Coeff  float64
	Coords [3]float64 //Center coordinates
	L      [3]int     //Angular momentum vector
}

// NormCoeff normalises x^l y^m z^n exp(-alpha r^2).
func (p PrimitiveGaussian) NormCoeff() float64 {
	l, m, n := p.L[0], p.L[1], p.L[2]
	res := math.Pow((2 * p.Alpha / math.Pi), 0.75) * math.Pow(4*p.Alpha, float64(l+m+n)/2)
	return res / math.Sqrt(doubleFactorial(2*l-1)*doubleFactorial(2*m-1)*doubleFactorial(2*n-1))
}

// AO is a contracted Cartesian Gaussian. Norm scales the contraction to unit
// self-overlap.
type AO struct {
	Atom  int
	Label string
	Norm  float64
	PGs   []PrimitiveGaussian
}

// Copy returns an AO that shares no storage with a.
func (a AO) Copy() AO {
	res := a
	res.PGs = make([]PrimitiveGaussian, len(a.PGs))
	copy(res.PGs, a.PGs)
	return res
}

// Normalize sets Norm so that <a|a> = 1.
func (a *AO) Normalize() {
	a.Norm = 1
	s := a.overlap(*a)
	if s > 0 {
		a.Norm = 1 / math.Sqrt(s)
	}
}

var shellTypes = []string{"S", "P", "D", "F"}

// Cartesian components in GAMESS order, indexed by angular momentum.
var cartesian = [][][3]int{
	{{0, 0, 0}},
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1}},
	{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}, {2, 1, 0}, {2, 0, 1}, {1, 2, 0}, {0, 2, 1}, {1, 0, 2}, {0, 1, 2}, {1, 1, 1}},
}

var cartLabels = [][]string{
	{"S"},
	{"X", "Y", "Z"},
	{"XX", "YY", "ZZ", "XY", "XZ", "YZ"},
	{"XXX", "YYY", "ZZZ", "XXY", "XXZ", "YYX", "YYZ", "ZZX", "ZZY", "XYZ"},
}

// FromRecord expands the record's shells into AOs ordered as the rows of the
// record's coefficient matrix.
func FromRecord(rec gamess.Record, debug bool, log *zap.Logger) ([]AO, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var aos []AO
	for i, sh := range rec.Shells {
		if sh.Atom < 0 || sh.Atom >= len(rec.Atoms) {
			return nil, errors.Wrapf(ErrBasisMismatch, "shell %d belongs to atom %d of %d", i+1, sh.Atom+1, len(rec.Atoms))
		}
		center := rec.Atoms[sh.Atom].Coords

		var parts [][2]int // angular momentum, coefficient column
		if sh.Type == "L" {
			parts = [][2]int{{0, 0}, {1, 1}}
		} else {
			l := slices.Index(shellTypes, sh.Type)
			if l < 0 {
				return nil, errors.Wrapf(ErrUnsupportedShell, "shell %d: %q", i+1, sh.Type)
			}
			parts = [][2]int{{l, 0}}
		}
		for _, p := range parts {
			contracted, err := contract(sh, p[0], p[1], center)
			if err != nil {
				return nil, errors.Wrapf(err, "shell %d", i+1)
			}
			aos = append(aos, contracted...)
		}
	}
	if len(aos) != rec.NBasis {
		return nil, errors.Wrapf(ErrBasisMismatch, "%d AOs built, record has %d", len(aos), rec.NBasis)
	}
	if debug {
		log.Info("AO basis built", zap.Int("shells", len(rec.Shells)), zap.Int("aos", len(aos)))
	}
	return aos, nil
}

func contract(sh gamess.Shell, l, col int, center [3]float64) ([]AO, error) {
	if len(sh.Coeffs) != len(sh.Exponents) {
		return nil, errors.Wrapf(ErrBasisMismatch, "%d exponents, %d coefficient rows", len(sh.Exponents), len(sh.Coeffs))
	}
	res := make([]AO, 0, len(cartesian[l]))
	for c, L := range cartesian[l] {
		ao := AO{Atom: sh.Atom, Label: cartLabels[l][c]}
		for k, alpha := range sh.Exponents {
			if col >= len(sh.Coeffs[k]) {
				return nil, errors.Wrapf(ErrBasisMismatch, "primitive %d has no coefficient column %d", k+1, col+1)
			}
			ao.PGs = append(ao.PGs, PrimitiveGaussian{alpha, sh.Coeffs[k][col], center, L})
		}
		ao.Normalize()
		res = append(res, ao)
	}
	return res, nil
}

func doubleFactorial(n int) float64 {
	res := 1.0
	for ; n > 1; n -= 2 {
		res *= float64(n)
	}
	return res
}
