// dipole.go --  This file is part of goNAMD project.
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
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/basis"
)

// Dipoles are the MO matrices mu_x = <i|x|j>, mu_y, mu_z.
type Dipoles struct {
	X, Y, Z *mat.Dense
}

// TransitionDipoles transforms the AO dipole integrals of ao into the MO basis
// given by C.
func TransitionDipoles(ao []basis.AO, C *mat.Dense) (Dipoles, error) {
	if err := checkCoefficients(ao, C, "t+dt"); err != nil {
		return Dipoles{}, err
	}
	x, y, z := basis.Dipole(ao)
	return Dipoles{
		X: project(C, x, C),
		Y: project(C, y, C),
		Z: project(C, z, C),
	}, nil
}
