// diagnostics.go --  This file is part of goNAMD project.
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
	"math"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/MirzaevaIV/goNAMD/internal/config"
	"github.com/MirzaevaIV/goNAMD/internal/nac"
	"github.com/MirzaevaIV/goNAMD/internal/output"
)

// diagnose only reads its arguments. Write failures are logged.
func diagnose(p config.Params, label string, mu nac.Dipoles, P nac.Overlaps, log *zap.Logger) {
	if p.DebugMuOutput {
		show(p, label, "mu_x", mu.X, log)
		show(p, label, "mu_y", mu.Y, log)
		show(p, label, "mu_z", mu.Z, log)
	}
	if p.DebugDensmatOutput {
		log.Info("P11 and P22 should be unit matrices",
			zap.Float64("rms_dev_P11", orthoRMS(P.P11)),
			zap.Float64("rms_dev_P22", orthoRMS(P.P22)))
		show(p, label, "P11", P.P11, log)
		show(p, label, "P22", P.P22, log)
		// overlap of MOs for different geometries
		show(p, label, "P12", P.P12, log)
		show(p, label, "P21", P.P21, log)
	}
}

func show(p config.Params, label, name string, m mat.Matrix, log *zap.Logger) {
	log.Info(name, zap.String("matrix", "\n"+output.Format(m)))
	if p.DiagDir == "" {
		return
	}
	if err := output.WriteMatrix(filepath.Join(p.DiagDir, name+"_"+label), m); err != nil {
		log.Warn("diagnostic matrix not written", zap.String("name", name), zap.Error(err))
	}
}

// orthoRMS is the root mean square deviation of P from the unit matrix.
func orthoRMS(P mat.Matrix) float64 {
	r, c := P.Dims()
	dev := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := P.At(i, j)
			if i == j {
				d -= 1
			}
			dev = append(dev, d*d)
		}
	}
	return math.Sqrt(stat.Mean(dev, nil))
}
