// overlap.go --  This file is part of goNAMD project.
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

// Package nac forms molecular-orbital overlaps between two geometries, the
// time-averaged orbital energies and nonadiabatic couplings built from them,
// transition dipole moments, and the active-space crop of all of these.
package nac

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/basis"
)

var (
	ErrDimension   = errors.New("nac: dimension mismatch")
	ErrBasisOption = errors.New("nac: unknown basis option")
	ErrTimeStep    = errors.New("nac: time step must be positive")
)

// BasisOption selects how the MO overlap blocks are formed.
type BasisOption int

const (
	// Plain uses C^T S C directly.
	Plain BasisOption = 1
	// Renormalized divides the cross-geometry blocks by the norms of the
	// orbitals taken from the same-geometry blocks.
	Renormalized BasisOption = 2
)

// Overlaps holds the MO overlap blocks between geometries t (1) and t+dt (2).
// P11 and P22 should be close to unity; P12 and P21 carry the coupling.
type Overlaps struct {
	P11, P22, P12, P21 *mat.Dense
}

// MOOverlap computes the four MO overlap blocks. C1 and C2 are NAO x NMO with
// rows matching ao1 and ao2.
func MOOverlap(ao1, ao2 []basis.AO, C1, C2 *mat.Dense, option BasisOption) (Overlaps, error) {
	if option != Plain && option != Renormalized {
		return Overlaps{}, errors.Wrapf(ErrBasisOption, "%d", option)
	}
	if err := checkCoefficients(ao1, C1, "t"); err != nil {
		return Overlaps{}, err
	}
	if err := checkCoefficients(ao2, C2, "t+dt"); err != nil {
		return Overlaps{}, err
	}

	S11 := basis.Overlap(ao1, ao1)
	S22 := basis.Overlap(ao2, ao2)
	S12 := basis.Overlap(ao1, ao2)

	var res Overlaps
	res.P11 = project(C1, S11, C1)
	res.P22 = project(C2, S22, C2)
	res.P12 = project(C1, S12, C2)
	res.P21 = project(C2, S12.T(), C1)

	if option == Renormalized {
		renormalize(res.P12, res.P11, res.P22)
		renormalize(res.P21, res.P22, res.P11)
	}
	return res, nil
}

func checkCoefficients(ao []basis.AO, C *mat.Dense, at string) error {
	if len(ao) == 0 || C == nil {
		return errors.Wrapf(ErrDimension, "empty basis at %s", at)
	}
	if r, _ := C.Dims(); r != len(ao) {
		return errors.Wrapf(ErrDimension, "%d AOs but %d coefficient rows at %s", len(ao), r, at)
	}
	return nil
}

// project returns A^T S B.
func project(A *mat.Dense, S mat.Matrix, B *mat.Dense) *mat.Dense {
	var tmp, res mat.Dense
	tmp.Mul(S, B)
	res.Mul(A.T(), &tmp)
	return &res
}

func renormalize(P, left, right *mat.Dense) {
	r, c := P.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			n := math.Sqrt(left.At(i, i) * right.At(j, j))
			if n > 0 {
				P.Set(i, j, P.At(i, j)/n)
			}
		}
	}
}
