// snapshot.go --  This file is part of goNAMD project.
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

// Package step advances the electronic-structure state of a trajectory by one
// nuclear time step: it reads the new GAMESS output, couples its orbitals to
// the previous ones and crops the result to the active space.
package step

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/basis"
	"github.com/MirzaevaIV/goNAMD/internal/gamess"
	"github.com/MirzaevaIV/goNAMD/internal/nac"
)

// Snapshot is the electronic structure at one geometry. Advance never writes
// to a Snapshot it was given and returns a new one that shares no storage with
// anything else.
type Snapshot struct {
	AO []basis.AO
	E  *mat.Dense // orbital energies, NMO x NMO
	C  *mat.Dense // MO coefficients, NAO x NMO
}

// Copy returns a deep copy of s.
func (s Snapshot) Copy() Snapshot {
	res := Snapshot{AO: make([]basis.AO, len(s.AO))}
	for i := range s.AO {
		res.AO[i] = s.AO[i].Copy()
	}
	if s.E != nil {
		res.E = mat.DenseCopyOf(s.E)
	}
	if s.C != nil {
		res.C = mat.DenseCopyOf(s.C)
	}
	return res
}

// Data is what one step produced besides the Hamiltonian matrices.
type Data struct {
	Record  gamess.Record
	AO      []basis.AO
	Dipoles nac.Dipoles // set by Advance only
}

// Snapshot returns a copy of the geometry's AO basis, energies and
// coefficients.
func (d Data) Snapshot() Snapshot {
	return Snapshot{AO: d.AO, E: d.Record.E, C: d.Record.C}.Copy()
}

// Unpack reads one GAMESS output: sections are detected, extracted and the AO
// basis is built from them.
func Unpack(fname string, debug bool, log *zap.Logger) (Data, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lines, err := gamess.ReadLines(fname)
	if err != nil {
		return Data{}, err
	}
	pos, err := gamess.Detect(lines, debug, log)
	if err != nil {
		return Data{}, wrapf(err, "unpack %s", fname)
	}
	rec, err := gamess.Extract(lines, pos, debug, log)
	if err != nil {
		return Data{}, wrapf(err, "unpack %s", fname)
	}
	ao, err := basis.FromRecord(rec, debug, log)
	if err != nil {
		return Data{}, wrapf(err, "unpack %s", fname)
	}
	return Data{Record: rec, AO: ao}, nil
}

// Initial unpacks the first geometry of a trajectory.
func Initial(fname string, debug bool, log *zap.Logger) (Snapshot, error) {
	d, err := Unpack(fname, debug, log)
	if err != nil {
		return Snapshot{}, err
	}
	return d.Snapshot(), nil
}
