// record.go --  This file is part of goNAMD project.
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

// Package gamess locates and extracts the electronic-structure sections of a
// GAMESS output file: geometry, contracted basis, MO eigenvectors and the
// Cartesian gradient.
package gamess

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrKeywordNotFound = errors.New("gamess: keyword not found")
	ErrMalformed       = errors.New("gamess: malformed output")
)

// Number of Cartesian components per shell type.
var shellSize = map[string]int{"S": 1, "P": 3, "L": 4, "D": 6, "F": 10}

type Atom struct {
	Symbol string
	Charge float64
	Coords [3]float64 // bohr
}

// Shell is one contracted shell as printed in the ATOMIC BASIS SET block.
// Coeffs holds one row per primitive: a single coefficient, or the s and p
// coefficients for an L shell.
type Shell struct {
	Atom      int
	Type      string
	Exponents []float64
	Coeffs    [][]float64
}

// NCart is the number of Cartesian AOs the shell expands into.
func (s Shell) NCart() int {
	return shellSize[s.Type]
}

// Record is everything one output file contributes to a trajectory step.
type Record struct {
	Atoms    []Atom
	Shells   []Shell
	NBasis   int // Cartesian AOs
	NOcc     int // occupied alpha orbitals, 0 if not printed
	E        *mat.Dense
	C        *mat.Dense
	Gradient *mat.Dense
}

// NMO is the number of molecular orbitals in the eigenvector block.
func (r Record) NMO() int {
	if r.C == nil {
		return 0
	}
	_, c := r.C.Dims()
	return c
}

func malformed(line int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "line %d: "+format, append([]interface{}{line + 1}, args...)...)
}
