// reduce.go --  This file is part of goNAMD project.
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

var (
	ErrOutOfRange = errors.New("nac: active space out of range")

	ErrEmptyWindow    = errors.WithMessage(ErrOutOfRange, "max_shift is below min_shift")
	ErrBelowLowest    = errors.WithMessage(ErrOutOfRange, "window starts below orbital 0")
	ErrWindowTooLarge = errors.WithMessage(ErrOutOfRange, "window is larger than the orbital space")
	ErrAboveHighest   = errors.WithMessage(ErrOutOfRange, "window ends above the last orbital")
)

// ReduceMatrix crops M to the orbitals homo+minShift .. homo+maxShift
// inclusive. Example: C2H4 with 6 occupied orbitals (homo = 5) and 4 virtuals;
// minShift = -2, maxShift = 2 keeps orbitals 3..7 and gives a 5x5 matrix.
// The result never shares storage with M.
func ReduceMatrix(M mat.Matrix, minShift, maxShift, homo int) (*mat.Dense, error) {
	rows, cols := M.Dims()
	if maxShift < minShift {
		return nil, errors.Wrapf(ErrEmptyWindow, "min_shift %d, max_shift %d", minShift, maxShift)
	}
	lo := homo + minShift
	if lo < 0 {
		return nil, errors.Wrapf(ErrBelowLowest, "HOMO %d + min_shift %d = %d", homo, minShift, lo)
	}
	sz := maxShift - minShift + 1
	if sz > cols {
		return nil, errors.Wrapf(ErrWindowTooLarge, "%d orbitals requested, %d available", sz, cols)
	}
	hi := homo + maxShift
	if hi >= rows || hi >= cols {
		return nil, errors.Wrapf(ErrAboveHighest, "HOMO %d + max_shift %d = %d, matrix is %dx%d", homo, maxShift, hi, rows, cols)
	}

	res := mat.NewDense(sz, sz, nil)
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			res.Set(i, j, M.At(lo+i, lo+j))
		}
	}
	return res, nil
}
