// config.go --  This file is part of goNAMD project.
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

// Package config loads the simulation parameters of a trajectory run.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("config: invalid parameters")

// Params holds every option the step pipeline and the driver read. Keys keep
// the names used in existing input files; 0/1 integers are accepted for the
// boolean flags.
type Params struct {
	GmsOut             string  `mapstructure:"gms_out"`
	DebugGmsUnpack     bool    `mapstructure:"debug_gms_unpack"`
	DebugMuOutput      bool    `mapstructure:"debug_mu_output"`
	DebugDensmatOutput bool    `mapstructure:"debug_densmat_output"`
	DtNucl             float64 `mapstructure:"dt_nucl"`
	MinShift           int     `mapstructure:"min_shift"`
	MaxShift           int     `mapstructure:"max_shift"`
	HOMO               int     `mapstructure:"homo"` // -1: taken from the number of occupied orbitals
	PrintMOHam         bool    `mapstructure:"print_mo_ham"`
	MOHam              string  `mapstructure:"mo_ham"`
	BasisOption        int     `mapstructure:"basis_option"`
	DiagDir            string  `mapstructure:"diag_dir"`

	Trajectory string `mapstructure:"trajectory"` // glob of per-step GAMESS outputs
	LogFile    string `mapstructure:"log_file"`
}

// Default values for optional keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gms_out", "")
	v.SetDefault("debug_gms_unpack", false)
	v.SetDefault("debug_mu_output", false)
	v.SetDefault("debug_densmat_output", false)
	v.SetDefault("dt_nucl", 41.0) // 1 fs in atomic units
	v.SetDefault("min_shift", -1)
	v.SetDefault("max_shift", 1)
	v.SetDefault("homo", -1)
	v.SetDefault("print_mo_ham", false)
	v.SetDefault("mo_ham", "res/")
	v.SetDefault("basis_option", 1)
	v.SetDefault("diag_dir", "")
	v.SetDefault("trajectory", "")
	v.SetDefault("log_file", "gonamd.log")
}

// Load reads fname (toml, yaml or json by extension; skipped when empty),
// then GONAMD_* environment variables, then any flags set in fs.
func Load(fname string, fs *pflag.FlagSet) (Params, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GONAMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Params{}, errors.Wrap(err, "bind flags")
		}
	}
	if fname != "" {
		v.SetConfigFile(fname)
		if err := v.ReadInConfig(); err != nil {
			return Params{}, errors.Wrapf(err, "read config %s", fname)
		}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, errors.Wrap(err, "unmarshal config")
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the parameters that do not depend on a particular output
// file. Orbital-range checks happen when the matrices are cropped.
func (p Params) Validate() error {
	switch {
	case p.DtNucl <= 0:
		return errors.Wrapf(ErrInvalidConfig, "dt_nucl = %g must be positive", p.DtNucl)
	case p.MaxShift < p.MinShift:
		return errors.Wrapf(ErrInvalidConfig, "max_shift %d is below min_shift %d", p.MaxShift, p.MinShift)
	case p.HOMO < -1:
		return errors.Wrapf(ErrInvalidConfig, "HOMO %d", p.HOMO)
	case p.BasisOption != 1 && p.BasisOption != 2:
		return errors.Wrapf(ErrInvalidConfig, "basis_option %d, want 1 or 2", p.BasisOption)
	case p.PrintMOHam && p.MOHam == "":
		return errors.Wrap(ErrInvalidConfig, "print_mo_ham is set but mo_ham is empty")
	}
	return nil
}
