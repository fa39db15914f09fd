// step.go --  This file is part of goNAMD project.
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
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/config"
	"github.com/MirzaevaIV/goNAMD/internal/nac"
	"github.com/MirzaevaIV/goNAMD/internal/output"
)

var ErrNoHOMO = errors.New("step: HOMO not configured and output has no occupied orbital count")

// Result of one step.
//
// Gradient[k][i] is the i-th Cartesian component of the energy gradient on
// nucleus k. EFull and DFull are the orbital energies and couplings over all
// MOs; ERed and DRed are the same matrices in the active space and always have
// equal dimensions.
type Result struct {
	Gradient *mat.Dense
	Data     Data
	Overlaps nac.Overlaps
	HOMO     int

	EFull, DFull *mat.Dense
	ERed, DRed   *mat.Dense
}

// Advance reads p.GmsOut as the geometry at t+dt and couples it to prev, the
// geometry at t. label is appended to the names of the Hamiltonian and
// diagnostic files and must not contain path separators (output.ErrBadLabel).
//
// On success the returned Snapshot describes t+dt and is ready to be passed to
// the next call. On failure the returned Snapshot is prev and Result is empty,
// except when the Hamiltonian files could not be written (output.ErrPersist):
// the computation completed, so both Result and the new Snapshot are returned
// with the error.
func Advance(p config.Params, prev Snapshot, label string, log *zap.Logger) (Result, Snapshot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("step", label))
	if err := output.CheckLabel(label); err != nil {
		return Result{}, prev, err
	}

	// 2-nd file - time "t+dt"
	data, err := Unpack(p.GmsOut, p.DebugGmsUnpack, log)
	if err != nil {
		return Result{}, prev, err
	}
	rec := data.Record

	P, err := nac.MOOverlap(prev.AO, data.AO, prev.C, rec.C, nac.BasisOption(p.BasisOption))
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: MO overlap", label)
	}

	// transition dipoles of the "current" geometry only
	data.Dipoles, err = nac.TransitionDipoles(data.AO, rec.C)
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: transition dipoles", label)
	}

	diagnose(p, label, data.Dipoles, P, log)

	EFull, err := nac.AverageE(prev.E, rec.E)
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: orbital energies", label)
	}
	DFull, err := nac.NAC(P.P12, P.P21, p.DtNucl)
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: couplings", label)
	}

	homo := p.HOMO
	if homo < 0 {
		if rec.NOcc <= 0 {
			return Result{}, prev, wrapf(ErrNoHOMO, "step %s", label)
		}
		homo = rec.NOcc - 1
	}
	ERed, err := nac.ReduceMatrix(EFull, p.MinShift, p.MaxShift, homo)
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: reduce energies", label)
	}
	DRed, err := nac.ReduceMatrix(DFull, p.MinShift, p.MaxShift, homo)
	if err != nil {
		return Result{}, prev, wrapf(err, "step %s: reduce couplings", label)
	}

	res := Result{
		Gradient: rec.Gradient,
		Data:     data,
		Overlaps: P,
		HOMO:     homo,
		EFull:    EFull,
		DFull:    DFull,
		ERed:     ERed,
		DRed:     DRed,
	}
	next := data.Snapshot()

	if p.PrintMOHam {
		if err := persist(p.MOHam, label, res); err != nil {
			log.Error("Hamiltonian files not written", zap.Error(err))
			return res, next, wrapf(err, "step %s", label)
		}
	}

	nred, _ := ERed.Dims()
	log.Debug("step done",
		zap.Int("nmo", rec.NMO()),
		zap.Int("homo", homo),
		zap.Int("active", nred))
	return res, next, nil
}

func persist(prefix, label string, res Result) error {
	files := []struct {
		tag string
		m   *mat.Dense
	}{
		{output.FullRe, res.EFull},
		{output.FullIm, res.DFull},
		{output.ReducedRe, res.ERed},
		{output.ReducedIm, res.DRed},
	}
	for _, f := range files {
		if err := output.WriteMatrix(output.HamName(prefix, f.tag, label), f.m); err != nil {
			return err
		}
	}
	return nil
}

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
