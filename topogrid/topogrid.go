// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topogrid

import (
	"log"
	"math"

	"github.com/alitto/pond"
	"github.com/cpmech/gosl/chk"
	"github.com/soniakeys/unit"

	"github.com/dwcaress/mbcore/grid"
)

// earthRadiusMeters is the mean earth radius used to turn a grid's
// lon/lat spacing into metres for topotolerance and ray stepping.
const earthRadiusMeters = 6371000.0

const intersectIterMax = 50

// Topogrid is a lon/lat bathymetry surface backed by a grid.Grid whose
// X axis is longitude and Y axis is latitude.
type Topogrid struct {
	Grid *grid.Grid
	Log  *log.Logger
}

// New wraps g as a Topogrid.
func New(g *grid.Grid) *Topogrid {
	return &Topogrid{Grid: g}
}

func (t *Topogrid) logf(format string, args ...interface{}) {
	if t.Log != nil {
		t.Log.Printf(format, args...)
	}
}

// Point is a geographic position.
type Point struct {
	Lon, Lat float64
}

// Vector is a unit look direction; Z is positive down.
type Vector struct {
	X, Y, Z float64
}

// CoorScale returns the metres-per-degree scale factors at the given
// latitude, using a mean-earth-radius small-angle approximation
// (the Non-goals exclude coordinate transforms beyond m-per-degree
// scaling, so a full geodetic model is out of scope here).
func CoorScale(lat float64) (mtodeglon, mtodeglat float64) {
	metersPerDegree := earthRadiusMeters * math.Pi / 180.0
	mtodeglat = 1.0 / metersPerDegree
	mtodeglon = 1.0 / (metersPerDegree * math.Cos(lat*math.Pi/180.0))
	return mtodeglon, mtodeglat
}

// Bounds returns the grid's lon/lat bounding box. Unlike the source
// this folds the nil receiver and nil-Grid checks into one guard
// instead of dereferencing the pointer again in a trailing debug
// print after the check.
func (t *Topogrid) Bounds() (lonMin, lonMax, latMin, latMax float64, err error) {
	if t == nil || t.Grid == nil {
		return 0, 0, 0, 0, chk.Err("topogrid: Bounds called on a nil topogrid")
	}
	g := t.Grid
	return g.Xmin, g.Xmin + float64(g.NCols-1)*g.Dx, g.Ymin, g.Ymin + float64(g.NRows-1)*g.Dy, nil
}

// Topo bilinearly interpolates the depth at (lon, lat) from the four
// surrounding grid nodes. When any of them is no-data it is excluded and
// the remaining nodes are averaged. It fails with "not enough data" when
// all four are no-data, and with an out-of-grid error when the point
// itself falls outside the grid.
func (t *Topogrid) Topo(lon, lat float64) (float64, error) {
	g := t.Grid
	i := int(math.Floor((lon - g.Xmin) / g.Dx))
	j := int(math.Floor((lat - g.Ymin) / g.Dy))
	if i < 0 || i >= g.NCols-1 || j < 0 || j >= g.NRows-1 {
		return 0, chk.Err("topogrid: Topo(%g, %g) is outside the grid", lon, lat)
	}
	var sum float64
	var n int
	for ii := i; ii <= i+1; ii++ {
		for jj := j; jj <= j+1; jj++ {
			if g.Valid(ii, jj) {
				sum += g.At(ii, jj)
				n++
			}
		}
	}
	if n == 0 {
		return 0, chk.Err("topogrid: Topo(%g, %g): not enough data", lon, lat)
	}
	if n == 4 {
		fx := (lon-g.Xmin)/g.Dx - float64(i)
		fy := (lat-g.Ymin)/g.Dy - float64(j)
		return (1-fx)*(1-fy)*g.At(i, j) + fx*(1-fy)*g.At(i+1, j) +
			(1-fx)*fy*g.At(i, j+1) + fx*fy*g.At(i+1, j+1), nil
	}
	return sum / float64(n), nil
}

// Intersect binary-searches the ray parameter r along
// nav + r*(mtodeg*v) for the point where the ray crosses the grid
// surface, given a navigation position, sensor altitude and depth, the
// local metres-per-degree scale, and a unit look vector v (Z positive
// down). altitude <= 0 means "unknown"; Topo at nav is used to derive
// an initial estimate instead.
func (t *Topogrid) Intersect(nav Point, altitude, sensordepth, mtodeglon, mtodeglat float64, v Vector) (lon, lat, topo, rng float64, err error) {
	var r, dr, rmax float64
	if altitude > 0 {
		dr = altitude / 20
		r = altitude/v.Z - dr
		rmax = 4 * altitude / v.Z
	} else {
		topo0, topoErr := t.Topo(nav.Lon, nav.Lat)
		if topoErr != nil {
			lon = nav.Lon
			lat = nav.Lat
			topo = -sensordepth
			return lon, lat, topo, 0, chk.Err("topogrid: Intersect: %v", topoErr)
		}
		altitude = -sensordepth - topo0
		dr = altitude / 20
		r = altitude/v.Z - dr
		rmax = 4 * altitude / v.Z
	}

	rmin := 0.0
	topotolerance := 0.05 * (t.Grid.Dx/mtodeglon + t.Grid.Dy/mtodeglat)

	done := false
	for iteration := 0; !done && iteration < intersectIterMax; iteration++ {
		r += dr

		lontest := nav.Lon + mtodeglon*v.X*r
		lattest := nav.Lat + mtodeglat*v.Y*r
		topotest := -sensordepth - v.Z*r

		topog, topoErr := t.Topo(lontest, lattest)
		if topoErr != nil {
			done = true
			err = chk.Err("topogrid: Intersect: ray left the grid before converging")
			break
		}

		dtopo := topotest - topog
		if math.Abs(dtopo) < topotolerance {
			done = true
			continue
		}

		// the source updates the lower bound with MIN rather than MAX
		// when narrowing from below; preserved rather than silently
		// changed since it changes convergence behaviour near the
		// grid's own bounds.
		if dtopo < 0 {
			rmax = math.Min(rmax, r)
		} else if dtopo > 0 {
			rmin = math.Min(rmin, r)
		}

		dr = dtopo / v.Z
		if r+dr >= rmax {
			dr = 0.5 * (rmax - r)
		}
		if r+dr <= rmin {
			dr = 0.5 * (rmin - r)
		}
	}

	lon = nav.Lon + mtodeglon*v.X*r
	lat = nav.Lat + mtodeglat*v.Y*r
	topo = -sensordepth - v.Z*r
	rng = r
	return lon, lat, topo, rng, err
}

// Beam is one ray of an angle table: the takeoff angle from vertical
// and the resulting seafloor intersection in vehicle-relative metres.
type Beam struct {
	Angle           unit.Angle
	Xtrack, Ltrack  float64
	Altitude, Range float64
}

// AngleTable is the per-beam intersection fan produced by
// GetAngleTable.
type AngleTable struct {
	Beams []Beam
}

// rollPitchToTakeoff converts a roll/pitch pair into takeoff-frame
// polar and azimuthal angles (theta from vertical, phi in the
// horizontal plane), via the direction cosines of the rotated
// vertical axis.
func rollPitchToTakeoff(roll, pitch unit.Angle) (theta, phi unit.Angle) {
	r, p := float64(roll), float64(pitch)
	dx := math.Sin(r)
	dy := -math.Sin(p) * math.Cos(r)
	dz := math.Cos(p) * math.Cos(r)
	theta = unit.Angle(math.Acos(dz))
	phi = unit.Angle(math.Atan2(dy, dx))
	return theta, phi
}

// GetAngleTable computes the seafloor intersection for nAngles beams
// uniformly spaced between angleMin and angleMax (takeoff angle from
// vertical), given the vehicle's navigation, heading and pitch, and
// the sensor's altitude/depth. Beams whose ray never converges are
// filled in afterward assuming a locally flat bottom anchored at the
// nearest beam that did converge.
func (t *Topogrid) GetAngleTable(nAngles int, angleMin, angleMax unit.Angle, nav Point, heading, pitch unit.Angle, altitude, sensordepth float64) (*AngleTable, error) {
	if nAngles < 2 {
		return nil, chk.Err("topogrid: GetAngleTable needs at least 2 angles, got %d", nAngles)
	}
	mtodeglon, mtodeglat := CoorScale(nav.Lat)
	dangle := (angleMax - angleMin) / unit.Angle(nAngles-1)

	table := &AngleTable{Beams: make([]Beam, nAngles)}
	ok := make([]bool, nAngles)
	thetas := make([]unit.Angle, nAngles)
	phis := make([]unit.Angle, nAngles)

	pool := pond.New(8, nAngles)
	for i := 0; i < nAngles; i++ {
		i := i
		pool.Submit(func() {
			angle := angleMin + dangle*unit.Angle(i)
			beta := unit.Angle(math.Pi/2) - angle
			theta, phi := rollPitchToTakeoff(pitch, beta)
			thetas[i], phis[i] = theta, phi

			sinTheta, cosTheta := math.Sin(float64(theta)), math.Cos(float64(theta))
			sinPhi, cosPhi := math.Sin(float64(phi)), math.Cos(float64(phi))
			sinHdg, cosHdg := math.Sin(float64(heading)), math.Cos(float64(heading))

			vz := cosTheta
			vx0 := sinTheta * cosPhi
			vy := sinTheta * sinPhi
			vx := vx0*cosHdg + vy*sinHdg
			vyR := -vx0*sinHdg + vy*cosHdg

			_, _, _, rr, err := t.Intersect(nav, altitude, sensordepth, mtodeglon, mtodeglat, Vector{X: vx, Y: vyR, Z: vz})
			table.Beams[i].Angle = angle
			if err == nil {
				zz := rr * cosTheta
				xx := rr * sinTheta
				table.Beams[i].Xtrack = xx * cosPhi
				table.Beams[i].Ltrack = xx * sinPhi
				table.Beams[i].Altitude = zz
				table.Beams[i].Range = rr
				ok[i] = true
			}
		})
	}
	pool.StopAndWait()

	nset := 0
	for _, b := range ok {
		if b {
			nset++
		}
	}
	if nset < nAngles && nset > 0 {
		first, last := nAngles, -1
		for i, b := range ok {
			if b {
				if i < first {
					first = i
				}
				if i > last {
					last = i
				}
			}
		}
		for i := 0; i < nAngles; i++ {
			if ok[i] {
				continue
			}
			theta, phi := thetas[i], phis[i]
			var fillAltitude float64
			switch {
			case i < first:
				fillAltitude = table.Beams[first].Altitude
			case i > last:
				fillAltitude = table.Beams[last].Altitude
			default:
				lo, hi := i-1, i+1
				for !ok[lo] {
					lo--
				}
				for !ok[hi] {
					hi++
				}
				if i-lo <= hi-i {
					fillAltitude = table.Beams[lo].Altitude
				} else {
					fillAltitude = table.Beams[hi].Altitude
				}
			}
			rr := fillAltitude / math.Cos(float64(theta))
			xx := rr * math.Sin(float64(theta))
			table.Beams[i].Altitude = fillAltitude
			table.Beams[i].Range = rr
			table.Beams[i].Xtrack = xx * math.Cos(float64(phi))
			table.Beams[i].Ltrack = xx * math.Sin(float64(phi))
		}
	} else if nset == 0 {
		for i := range table.Beams {
			table.Beams[i].Altitude = altitude
			table.Beams[i].Range = 0
		}
		t.logf("topogrid: GetAngleTable: no beam converged, all entries flat-filled at altitude %g", altitude)
	}

	return table, nil
}
