// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// point2 is the bare (x,y) geometry used during triangulation; z and
// edge class ride along in the Points arena and are irrelevant to the
// predicates below.
type point2 struct{ x, y float64 }

// orient2 returns twice the signed area of triangle (a,b,c): positive
// when a,b,c are counter-clockwise, negative when clockwise, zero when
// collinear.
func orient2(a, b, c point2) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// inCircumcircle reports whether d lies strictly inside the circumcircle
// of the counter-clockwise triangle (a,b,c), using the standard
// determinant predicate.
func inCircumcircle(a, b, c, d point2) bool {
	adx, ady := a.x-d.x, a.y-d.y
	bdx, bdy := b.x-d.x, b.y-d.y
	cdx, cdy := c.x-d.x, c.y-d.y

	adSq := adx*adx + ady*ady
	bdSq := bdx*bdx + bdy*bdy
	cdSq := cdx*cdx + cdy*cdy

	det := adx*(bdy*cdSq-cdy*bdSq) -
		ady*(bdx*cdSq-cdx*bdSq) +
		adSq*(bdx*cdy-cdx*bdy)
	return det > 0
}

// pointInTriangle reports whether p lies inside or on the boundary of
// the counter-clockwise triangle (a,b,c).
func pointInTriangle(p, a, b, c point2) bool {
	d1 := orient2(a, b, p)
	d2 := orient2(b, c, p)
	d3 := orient2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
