// main.go --  This file is part of goNAMD project.
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

// Command gonamd builds the orbital-basis Hamiltonians of a nonadiabatic
// molecular dynamics trajectory from a sequence of GAMESS outputs.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gonamd",
		Short: "Orbital energies and nonadiabatic couplings from GAMESS outputs",
		Long: appInfo() + "\nEvery pair of consecutive GAMESS outputs of a trajectory gives the\n" +
			"averaged orbital energies and the nonadiabatic couplings of one step.",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newInspectCmd())
	return root
}

func appInfo() string {
	return strings.Join([]string{
		" goNAMD | Author: Mirzaeva Irina Valerievna",
		"        | email: dairdre@gmail.com",
		"        | Nikolaev Institute of Inorganic Chemistry SB RAS (http://niic.nsc.ru/)",
		"        | Novosibirsk, Russia",
	}, "\n") + "\n"
}

// initLog opens the run log. Records are appended, as consecutive runs share
// one file by default.
func initLog(fname string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{fname}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "open log %s", fname)
	}
	return log, nil
}
