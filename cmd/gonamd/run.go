// run.go --  This file is part of goNAMD project.
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
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"

	"github.com/MirzaevaIV/goNAMD/internal/config"
	"github.com/MirzaevaIV/goNAMD/internal/output"
	"github.com/MirzaevaIV/goNAMD/internal/step"
)

var ErrShortTrajectory = errors.New("trajectory needs at least two GAMESS outputs")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every step of a trajectory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fname, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")
			p, err := config.Load(fname, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := initLog(p.LogFile, verbose)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			log = log.With(zap.String("run", uuid.New().String()))

			n, err := runTrajectory(p, log)
			if err != nil {
				log.Error("run stopped", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d steps done, log in %s\n", n, p.LogFile)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("config", "c", "", "parameter file (toml, yaml or json)")
	f.BoolP("verbose", "v", false, "debug level logging")
	f.String("trajectory", "", "glob of the per-step GAMESS outputs, in time order when sorted")
	f.String("log_file", "gonamd.log", "log file")
	f.String("mo_ham", "res/", "prefix of the Hamiltonian files")
	f.String("diag_dir", "", "directory for diagnostic matrices")
	f.Float64("dt_nucl", 41.0, "nuclear time step, a.u.")
	f.Int("min_shift", -1, "lowest active orbital relative to HOMO")
	f.Int("max_shift", 1, "highest active orbital relative to HOMO")
	f.Int("homo", -1, "HOMO index, -1 to take it from the output")
	f.Int("basis_option", 1, "1: plain MO overlaps, 2: renormalised")
	f.Bool("print_mo_ham", false, "write the Hamiltonian files")
	return cmd
}

// runTrajectory advances through the outputs matched by p.Trajectory and
// returns the number of steps computed. A step whose files could not be
// written does not stop the run; the failures are reported at the end.
func runTrajectory(p config.Params, log *zap.Logger) (int, error) {
	if p.Trajectory == "" {
		return 0, errors.Wrap(config.ErrInvalidConfig, "trajectory is not set")
	}
	files, err := filepath.Glob(p.Trajectory)
	if err != nil {
		return 0, errors.Wrapf(err, "trajectory %q", p.Trajectory)
	}
	if len(files) < 2 {
		return 0, errors.Wrapf(ErrShortTrajectory, "%q matches %d files", p.Trajectory, len(files))
	}
	slices.Sort(files)
	log.Info("trajectory", zap.Int("files", len(files)), zap.String("first", files[0]))

	// 1-st file - time "t"
	prev, err := step.Initial(files[0], p.DebugGmsUnpack, log)
	if err != nil {
		return 0, err
	}

	var unsaved []string
	n := 0
	for i, fname := range files[1:] {
		p.GmsOut = fname
		label := strconv.Itoa(i + 1)
		res, next, err := step.Advance(p, prev, label, log)
		switch {
		case errors.Is(err, output.ErrPersist):
			unsaved = append(unsaved, label)
		case err != nil:
			return n, err
		}
		n++
		prev = next

		r, _ := res.DRed.Dims()
		log.Info("step",
			zap.String("label", label),
			zap.String("file", fname),
			zap.Int("homo", res.HOMO),
			zap.Int("active", r),
			zap.Float64("grad_norm", floats.Norm(res.Gradient.RawMatrix().Data, 2)))
	}
	if len(unsaved) > 0 {
		return n, errors.Wrapf(output.ErrPersist, "steps %v", unsaved)
	}
	return n, nil
}
