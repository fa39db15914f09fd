// extract.go --  This file is part of goNAMD project.
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
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Extract reads the sections located by Detect into a Record.
func Extract(lines []string, pos Positions, debug bool, log *zap.Logger) (Record, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var rec Record
	var err error

	if rec.Atoms, err = extractAtoms(lines, pos.Coords); err != nil {
		return Record{}, err
	}
	if rec.Shells, err = extractShells(lines, pos.Basis, pos.BasisEnd, len(rec.Atoms)); err != nil {
		return Record{}, err
	}
	for _, s := range rec.Shells {
		rec.NBasis += s.NCart()
	}
	if pos.NCart >= 0 {
		n, err := lastInt(lines, pos.NCart)
		if err != nil {
			return Record{}, err
		}
		if n != rec.NBasis {
			return Record{}, malformed(pos.NCart, "%d Cartesian functions reported, basis expands to %d", n, rec.NBasis)
		}
	}
	if pos.NOcc >= 0 {
		if rec.NOcc, err = lastInt(lines, pos.NOcc); err != nil {
			return Record{}, err
		}
	}
	if rec.E, rec.C, err = extractEigenvectors(lines, pos.Eigenvectors, pos.EigenvectorsEnd, rec.NBasis); err != nil {
		return Record{}, err
	}
	if rec.Gradient, err = extractGradient(lines, pos.Gradient, len(rec.Atoms)); err != nil {
		return Record{}, err
	}

	if debug {
		log.Info("gamess output extracted",
			zap.Int("atoms", len(rec.Atoms)),
			zap.Int("shells", len(rec.Shells)),
			zap.Int("nbasis", rec.NBasis),
			zap.Int("nmo", rec.NMO()),
			zap.Int("nocc", rec.NOcc))
	}
	return rec, nil
}

func extractAtoms(lines []string, start int) ([]Atom, error) {
	var atoms []Atom
	for i := start + 1; i < len(lines); i++ {
		words := strings.Fields(lines[i])
		if len(words) == 0 {
			if len(atoms) > 0 {
				break
			}
			continue
		}
		if strings.Contains(lines[i], "CHARGE") {
			continue
		}
		if len(words) != 5 {
			break
		}
		vals, err := parseFloats(words[1:])
		if err != nil {
			return nil, malformed(i, "atom row: %v", err)
		}
		atoms = append(atoms, Atom{
			Symbol: words[0],
			Charge: vals[0],
			Coords: [3]float64{vals[1], vals[2], vals[3]},
		})
	}
	if len(atoms) == 0 {
		return nil, malformed(start, "no atoms after %q", kwCoords)
	}
	return atoms, nil
}

// extractShells reads the ATOMIC BASIS SET block. Every label line opens the
// next atom of the geometry, so the block must list all atoms (C1 symmetry).
func extractShells(lines []string, start, end, natoms int) ([]Shell, error) {
	var shells []Shell
	atom := -1
	current := -1
	for i := start + 1; i < end; i++ {
		words := strings.Fields(lines[i])
		switch {
		case len(words) == 1 && isLabel(words[0]):
			atom++
			current = -1
		case len(words) >= 5 && isInt(words[0]) && isInt(words[2]):
			n, _ := strconv.Atoi(words[0])
			typ := strings.ToUpper(words[1])
			if _, ok := shellSize[typ]; !ok {
				return nil, malformed(i, "unsupported shell type %q", words[1])
			}
			if atom < 0 {
				return nil, malformed(i, "primitive before any atom label")
			}
			nc := 1
			if typ == "L" {
				nc = 2
			}
			if len(words) < 4+nc {
				return nil, malformed(i, "%s shell needs %d coefficients", typ, nc)
			}
			vals, err := parseFloats(words[3 : 4+nc])
			if err != nil {
				return nil, malformed(i, "primitive row: %v", err)
			}
			if n != current {
				shells = append(shells, Shell{Atom: atom, Type: typ})
				current = n
			}
			s := &shells[len(shells)-1]
			if s.Type != typ {
				return nil, malformed(i, "shell %d mixes types %s and %s", n, s.Type, typ)
			}
			s.Exponents = append(s.Exponents, vals[0])
			s.Coeffs = append(s.Coeffs, vals[1:])
		}
	}
	if atom+1 != natoms {
		return nil, malformed(start, "basis lists %d atoms, geometry has %d", atom+1, natoms)
	}
	if len(shells) == 0 {
		return nil, malformed(start, "no shells in %q", kwBasis)
	}
	return shells, nil
}

// extractEigenvectors reads MO blocks of the form
//
//	MO indices
//	orbital energies
//	symmetry labels (optional)
//	nao coefficient rows, coefficients in the last k columns
func extractEigenvectors(lines []string, start, end, nao int) (*mat.Dense, *mat.Dense, error) {
	var energies []float64
	var cols [][]float64
	for i := start + 1; i < end; i++ {
		idx, ok := intFields(lines[i])
		if !ok {
			continue
		}
		k := len(idx)
		if idx[0] != len(energies)+1 {
			return nil, nil, malformed(i, "MO index %d out of sequence", idx[0])
		}
		i++
		if i >= end {
			return nil, nil, malformed(i, "missing orbital energies")
		}
		e, err := parseFloats(strings.Fields(lines[i]))
		if err != nil || len(e) != k {
			return nil, nil, malformed(i, "expected %d orbital energies", k)
		}
		energies = append(energies, e...)

		i++
		if i < end {
			if words := strings.Fields(lines[i]); len(words) > 0 && !isInt(words[0]) {
				i++
			}
		}
		block := make([][]float64, k)
		for c := range block {
			block[c] = make([]float64, nao)
		}
		for r := 0; r < nao; r++ {
			if i >= end {
				return nil, nil, malformed(i, "eigenvector block truncated at row %d", r+1)
			}
			words := strings.Fields(lines[i])
			if len(words) < k+1 {
				return nil, nil, malformed(i, "expected %d coefficients", k)
			}
			vals, err := parseFloats(words[len(words)-k:])
			if err != nil {
				return nil, nil, malformed(i, "coefficient row: %v", err)
			}
			for c := range vals {
				block[c][r] = vals[c]
			}
			i++
		}
		i--
		cols = append(cols, block...)
	}
	if len(energies) == 0 {
		return nil, nil, malformed(start, "no eigenvectors")
	}

	nmo := len(energies)
	E := mat.NewDense(nmo, nmo, nil)
	C := mat.NewDense(nao, nmo, nil)
	for j := 0; j < nmo; j++ {
		E.Set(j, j, energies[j])
		for i := 0; i < nao; i++ {
			C.Set(i, j, cols[j][i])
		}
	}
	return E, C, nil
}

func extractGradient(lines []string, start, natoms int) (*mat.Dense, error) {
	i := start + 1
	for ; i < len(lines) && !strings.Contains(lines[i], kwUnits); i++ {
	}
	if i == len(lines) {
		return nil, malformed(start, "no %q line", kwUnits)
	}
	g := mat.NewDense(natoms, 3, nil)
	for a := 0; a < natoms; a++ {
		i++
		if i >= len(lines) {
			return nil, malformed(i, "gradient truncated at atom %d", a+1)
		}
		words := strings.Fields(lines[i])
		if len(words) < 3 {
			return nil, malformed(i, "gradient row for atom %d", a+1)
		}
		vals, err := parseFloats(words[len(words)-3:])
		if err != nil {
			return nil, malformed(i, "gradient row: %v", err)
		}
		g.SetRow(a, vals)
	}
	return g, nil
}

func lastInt(lines []string, i int) (int, error) {
	words := strings.Fields(lines[i])
	if len(words) == 0 {
		return 0, malformed(i, "empty line")
	}
	n, err := strconv.Atoi(words[len(words)-1])
	if err != nil {
		return 0, malformed(i, "%v", err)
	}
	return n, nil
}

func parseFloats(words []string) ([]float64, error) {
	res := make([]float64, len(words))
	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func intFields(line string) ([]int, bool) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, false
	}
	res := make([]int, len(words))
	for i, w := range words {
		n, err := strconv.Atoi(w)
		if err != nil {
			return nil, false
		}
		res[i] = n
	}
	return res, true
}

func isInt(w string) bool {
	_, err := strconv.Atoi(w)
	return err == nil
}

// isLabel reports whether w is an atom name as copied from $DATA: a letter
// followed by letters or digits (O, H2, C12).
func isLabel(w string) bool {
	for i, r := range w {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return w != ""
}
