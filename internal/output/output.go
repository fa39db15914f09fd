// output.go --  This file is part of goNAMD project.
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

// Package output writes matrices as plain-text artifacts.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrPersist  = errors.New("output: cannot write artifact")
	ErrBadLabel = errors.New("output: step label must not contain path separators")
)

// Hamiltonian artifact tags. The real part is the orbital energy matrix, the
// imaginary part the nonadiabatic coupling.
const (
	FullRe    = "full_re_Ham_"
	FullIm    = "full_im_Ham_"
	ReducedRe = "reduced_re_Ham_"
	ReducedIm = "reduced_im_Ham_"
)

// HamName joins the configured prefix, a tag and the step label, e.g.
// "res/" + "full_re_Ham_" + "12".
func HamName(prefix, tag, label string) string {
	return prefix + tag + label
}

// CheckLabel rejects labels that would move an artifact out of its
// directory once appended to a file name.
func CheckLabel(label string) error {
	if strings.ContainsAny(label, `/\`) || strings.ContainsRune(label, 0) {
		return errors.Wrapf(ErrBadLabel, "%q", label)
	}
	return nil
}

// WriteMatrix stores m one row per line, creating the parent directory.
func WriteMatrix(fname string, m mat.Matrix) error {
	if dir := filepath.Dir(fname); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(ErrPersist, "%s: %v", fname, err)
		}
	}
	var b strings.Builder
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			fmt.Fprintf(&b, "%16.10f", m.At(i, j))
		}
		b.WriteString("\n")
	}
	if err := os.WriteFile(fname, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(ErrPersist, "%s: %v", fname, err)
	}
	return nil
}

// Format renders m for logs.
func Format(m mat.Matrix) string {
	fa := mat.Formatted(m, mat.Prefix("    "), mat.Squeeze())
	return fmt.Sprintf("    %.8f", fa)
}
