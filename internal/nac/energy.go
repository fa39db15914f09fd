// energy.go --  This file is part of goNAMD project.
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
package nac

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AverageE is the time-averaged orbital energy matrix (E1 + E2) / 2.
func AverageE(E1, E2 mat.Matrix) (*mat.Dense, error) {
	if err := sameDims(E1, E2, "E(t)", "E(t+dt)"); err != nil {
		return nil, err
	}
	var res mat.Dense
	res.Add(E1, E2)
	res.Scale(0.5, &res)
	return &res, nil
}

// NAC is the finite-difference coupling (P12 - P21) / (2 dt). It is
// antisymmetric whenever P21 = P12^T.
func NAC(P12, P21 mat.Matrix, dt float64) (*mat.Dense, error) {
	if dt <= 0 {
		return nil, errors.Wrapf(ErrTimeStep, "dt = %g", dt)
	}
	if err := sameDims(P12, P21, "P12", "P21"); err != nil {
		return nil, err
	}
	var res mat.Dense
	res.Sub(P12, P21)
	res.Scale(0.5/dt, &res)
	return &res, nil
}

func sameDims(a, b mat.Matrix, na, nb string) error {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb || ca != cb {
		return errors.Wrapf(ErrDimension, "%s is %dx%d, %s is %dx%d", na, ra, ca, nb, rb, cb)
	}
	return nil
}
