// inspect.go --  This file is part of goNAMD project.
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
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goNAMD/internal/output"
	"github.com/MirzaevaIV/goNAMD/internal/step"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Unpack one GAMESS output and print what was read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			log := zap.NewNop()
			if debug {
				var err error
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
				defer log.Sync() //nolint:errcheck
			}
			d, err := step.Unpack(args[0], debug, log)
			if err != nil {
				return err
			}
			summary(cmd.OutOrStdout(), args[0], d)
			return nil
		},
	}
	cmd.Flags().BoolP("debug", "d", false, "log detected sections and the AO basis")
	return cmd
}

func summary(w io.Writer, fname string, d step.Data) {
	rec := d.Record
	fmt.Fprintln(w, fname)
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "atoms                   %d\n", len(rec.Atoms))
	for _, a := range rec.Atoms {
		fmt.Fprintf(w, "    %-4s%6.1f%16.8f%16.8f%16.8f\n", a.Symbol, a.Charge, a.Coords[0], a.Coords[1], a.Coords[2])
	}
	fmt.Fprintf(w, "shells                  %d\n", len(rec.Shells))
	fmt.Fprintf(w, "basis functions         %d\n", len(d.AO))
	fmt.Fprintf(w, "molecular orbitals      %d\n", rec.NMO())
	fmt.Fprintf(w, "occupied orbitals       %d\n", rec.NOcc)

	n := rec.NMO()
	e := make([]float64, n)
	for i := range e {
		e[i] = rec.E.At(i, i)
	}
	fmt.Fprintln(w, "orbital energies")
	fmt.Fprint(w, output.Format(mat.NewDense(1, n, e)))
	fmt.Fprintln(w)
	if rec.Gradient != nil {
		fmt.Fprintf(w, "gradient norm           %.8f\n", floats.Norm(rec.Gradient.RawMatrix().Data, 2))
	}
}
