// detect.go --  This file is part of goNAMD project.
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
package gamess

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	kwCoords   = "COORDINATES (BOHR)"
	kwBasis    = "ATOMIC BASIS SET"
	kwBasisEnd = "TOTAL NUMBER OF BASIS SET SHELLS"
	kwNCart    = "NUMBER OF CARTESIAN GAUSSIAN BASIS FUNCTIONS"
	kwNOcc     = "NUMBER OF OCCUPIED ORBITALS (ALPHA)"
	kwEigen    = "EIGENVECTORS"
	kwEnd      = "END OF"
	kwGradient = "GRADIENT OF THE ENERGY"
	kwUnits    = "UNITS ARE HARTREE/BOHR"
)

// Positions holds 0-based line numbers of the sections found by Detect.
// Optional sections that are absent are -1.
type Positions struct {
	Coords          int
	Basis           int
	BasisEnd        int
	NCart           int
	NOcc            int
	Eigenvectors    int
	EigenvectorsEnd int
	Gradient        int
}

// ReadLines returns the content of fname line by line.
func ReadLines(fname string) ([]string, error) {
	var result []string

	file, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fname)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", fname)
	}
	return result, nil
}

// Detect scans the output once and records where each section starts.
// Geometry and basis are taken from their first occurrence, eigenvectors and
// gradient from their last, so that optimisation-style outputs resolve to the
// final point.
func Detect(lines []string, debug bool, log *zap.Logger) (Positions, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pos := Positions{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, line := range lines {
		switch {
		case strings.Contains(line, kwCoords):
			if pos.Coords < 0 {
				pos.Coords = i
			}
		case strings.Contains(line, kwBasisEnd):
			if pos.BasisEnd < 0 {
				pos.BasisEnd = i
			}
		case strings.Contains(line, kwBasis):
			if pos.Basis < 0 {
				pos.Basis = i
			}
		case strings.Contains(line, kwNCart):
			pos.NCart = i
		case strings.Contains(line, kwNOcc):
			pos.NOcc = i
		case strings.TrimSpace(line) == kwEigen:
			pos.Eigenvectors = i
		case strings.Contains(line, kwGradient):
			pos.Gradient = i
		}
	}

	required := []struct {
		kw  string
		pos int
	}{
		{kwCoords, pos.Coords},
		{kwBasis, pos.Basis},
		{kwBasisEnd, pos.BasisEnd},
		{kwEigen, pos.Eigenvectors},
		{kwGradient, pos.Gradient},
	}
	for _, r := range required {
		if r.pos < 0 {
			return pos, errors.Wrapf(ErrKeywordNotFound, "%q", r.kw)
		}
	}
	if pos.BasisEnd < pos.Basis {
		return pos, malformed(pos.BasisEnd, "%q precedes %q", kwBasisEnd, kwBasis)
	}

	pos.EigenvectorsEnd = len(lines)
	for i := pos.Eigenvectors + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], kwEnd) {
			pos.EigenvectorsEnd = i
			break
		}
	}

	if debug {
		log.Info("gamess sections detected",
			zap.Int("coords", pos.Coords),
			zap.Int("basis", pos.Basis),
			zap.Int("basis_end", pos.BasisEnd),
			zap.Int("ncart", pos.NCart),
			zap.Int("nocc", pos.NOcc),
			zap.Int("eigenvectors", pos.Eigenvectors),
			zap.Int("eigenvectors_end", pos.EigenvectorsEnd),
			zap.Int("gradient", pos.Gradient))
	}
	return pos, nil
}
