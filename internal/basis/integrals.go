// integrals.go --  This file is part of goNAMD project.
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
package basis

// По мотивам https://joshuagoings.com/2017/04/28/integrals/ (McMurchie-Davidson)

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// hermite returns the Hermite expansion coefficient E^{ij}_t for two 1D
// Gaussians with exponents a, b separated by qx = Ax - Bx.
func hermite(i, j, t int, qx, a, b float64) float64 {
	p := a + b
	q := a * b / p
	switch {
	case t < 0 || t > i+j || i < 0 || j < 0:
		return 0
	case i == 0 && j == 0 && t == 0:
		return math.Exp(-q * qx * qx)
	case j == 0:
		return (1/(2*p))*hermite(i-1, j, t-1, qx, a, b) -
			(q*qx/a)*hermite(i-1, j, t, qx, a, b) +
			float64(t+1)*hermite(i-1, j, t+1, qx, a, b)
	default:
		return (1/(2*p))*hermite(i, j-1, t-1, qx, a, b) +
			(q*qx/b)*hermite(i, j-1, t, qx, a, b) +
			float64(t+1)*hermite(i, j-1, t+1, qx, a, b)
	}
}

// CalcP returns the centre of the product Gaussian.
func CalcP(a1, a2 float64, v1, v2 [3]float64) [3]float64 {
	vv1 := mat.NewVecDense(3, v1[:])
	vv2 := mat.NewVecDense(3, v2[:])
	vres := mat.NewVecDense(3, nil)
	var res [3]float64
	vres.AddScaledVec(vres, a1, vv1)
	vres.AddScaledVec(vres, a2, vv2)
	vres.ScaleVec(1/(a1+a2), vres)
	for i := range res {
		res[i] = vres.AtVec(i)
	}
	return res
}

func primOverlap(g1, g2 PrimitiveGaussian) float64 {
	p := g1.Alpha + g2.Alpha
	res := math.Pow((math.Pi / p), 1.5)
	for d := 0; d < 3; d++ {
		res *= hermite(g1.L[d], g2.L[d], 0, g1.Coords[d]-g2.Coords[d], g1.Alpha, g2.Alpha)
	}
	return res
}

// primDipole is <g1|r|g2> with the origin at (0, 0, 0).
func primDipole(g1, g2 PrimitiveGaussian) [3]float64 {
	p := g1.Alpha + g2.Alpha
	P := CalcP(g1.Alpha, g2.Alpha, g1.Coords, g2.Coords)
	var e0, d1 [3]float64
	for d := 0; d < 3; d++ {
		qx := g1.Coords[d] - g2.Coords[d]
		e0[d] = hermite(g1.L[d], g2.L[d], 0, qx, g1.Alpha, g2.Alpha)
		d1[d] = hermite(g1.L[d], g2.L[d], 1, qx, g1.Alpha, g2.Alpha) + P[d]*e0[d]
	}
	pref := math.Pow((math.Pi / p), 1.5)
	return [3]float64{
		pref * d1[0] * e0[1] * e0[2],
		pref * e0[0] * d1[1] * e0[2],
		pref * e0[0] * e0[1] * d1[2],
	}
}

func (a AO) overlap(b AO) float64 {
	res := 0.0
	for k := range a.PGs {
		for l := range b.PGs {
			N := a.PGs[k].NormCoeff() * b.PGs[l].NormCoeff()
			res += N * a.PGs[k].Coeff * b.PGs[l].Coeff * primOverlap(a.PGs[k], b.PGs[l])
		}
	}
	return a.Norm * b.Norm * res
}

func (a AO) dipole(b AO) [3]float64 {
	var res [3]float64
	for k := range a.PGs {
		for l := range b.PGs {
			N := a.PGs[k].NormCoeff() * b.PGs[l].NormCoeff() * a.PGs[k].Coeff * b.PGs[l].Coeff
			d := primDipole(a.PGs[k], b.PGs[l])
			for x := range res {
				res[x] += N * d[x]
			}
		}
	}
	for x := range res {
		res[x] *= a.Norm * b.Norm
	}
	return res
}

// Overlap returns S_ij = <a_i|b_j>. The two sets may belong to different
// geometries. Both must be non-empty.
func Overlap(a, b []AO) *mat.Dense {
	res := mat.NewDense(len(a), len(b), nil)
	fillRows(len(a), func(i int) {
		for j := range b {
			res.Set(i, j, a[i].overlap(b[j]))
		}
	})
	return res
}

// Dipole returns the AO matrices of x, y and z.
func Dipole(a []AO) (*mat.Dense, *mat.Dense, *mat.Dense) {
	n := len(a)
	x := mat.NewDense(n, n, nil)
	y := mat.NewDense(n, n, nil)
	z := mat.NewDense(n, n, nil)
	fillRows(n, func(i int) {
		for j := range a {
			d := a[i].dipole(a[j])
			x.Set(i, j, d[0])
			y.Set(i, j, d[1])
			z.Set(i, j, d[2])
		}
	})
	return x, y, z
}

// fillRows runs row(i) for every row, at most GOMAXPROCS at a time, and
// returns when all rows are done. Each row is written by exactly one goroutine.
func fillRows(n int, row func(i int)) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(-1))
	for i := 0; i < n; i++ {
		i := i // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			row(i)
			return nil
		})
	}
	_ = g.Wait() // row cannot fail, every closure returns nil
}
