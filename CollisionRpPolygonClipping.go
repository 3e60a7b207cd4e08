package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Points this close behind a clip plane still count as inside.
const rpClipTolerance = 1e-9

/// Clip a polygon against the half-space dot(p - planePoint, planeNormal) >= 0
/// (Sutherland-Hodgman). A two-vertex subject is clipped as an open segment.
func RpClipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return nil
	}

	distance := func(p mgl64.Vec3) float64 {
		return p.Sub(planePoint).Dot(planeNormal)
	}

	if len(polygon) == 1 {
		if distance(polygon[0]) >= -rpClipTolerance {
			return []mgl64.Vec3{polygon[0]}
		}
		return nil
	}

	if len(polygon) == 2 {
		p1, p2 := polygon[0], polygon[1]
		d1, d2 := distance(p1), distance(p2)
		in1, in2 := d1 >= -rpClipTolerance, d2 >= -rpClipTolerance

		switch {
		case in1 && in2:
			return []mgl64.Vec3{p1, p2}
		case in1:
			return []mgl64.Vec3{p1, rpSegmentPlaneIntersection(p1, p2, d1, d2)}
		case in2:
			return []mgl64.Vec3{rpSegmentPlaneIntersection(p1, p2, d1, d2), p2}
		default:
			return nil
		}
	}

	output := make([]mgl64.Vec3, 0, len(polygon)+1)

	prev := polygon[len(polygon)-1]
	prevDist := distance(prev)
	prevInside := prevDist >= -rpClipTolerance

	for _, current := range polygon {
		currentDist := distance(current)
		currentInside := currentDist >= -rpClipTolerance

		if currentInside {
			if !prevInside {
				output = append(output, rpSegmentPlaneIntersection(prev, current, prevDist, currentDist))
			}
			output = append(output, current)
		} else if prevInside {
			output = append(output, rpSegmentPlaneIntersection(prev, current, prevDist, currentDist))
		}

		prev = current
		prevDist = currentDist
		prevInside = currentInside
	}

	return output
}

/// Clip the subject polygon against every edge plane of the clip polygon. The
/// clip polygon must be convex and counter-clockwise around clipNormal. The
/// result is empty when the subject lies outside one of the planes.
func RpClipPolygons(subject, clip []mgl64.Vec3, clipNormal mgl64.Vec3) []mgl64.Vec3 {
	current := append([]mgl64.Vec3(nil), subject...)

	if len(clip) < 3 {
		return current
	}

	for i := range clip {
		if len(current) == 0 {
			return nil
		}

		v1 := clip[i]
		v2 := clip[(i+1)%len(clip)]

		edge := v2.Sub(v1)
		if edge.Len() == 0.0 {
			continue
		}

		inward := clipNormal.Cross(edge).Normalize()
		current = RpClipPolygonAgainstPlane(current, v1, inward)
	}

	if len(current) == 0 {
		return nil
	}

	return current
}

/// Area of a planar polygon seen along normal.
func RpPolygonArea(polygon []mgl64.Vec3, normal mgl64.Vec3) float64 {
	if len(polygon) < 3 {
		return 0.0
	}

	sum := mgl64.Vec3{}
	for i := range polygon {
		sum = sum.Add(polygon[i].Cross(polygon[(i+1)%len(polygon)]))
	}

	return 0.5 * math.Abs(sum.Dot(normal.Normalize()))
}

func rpSegmentPlaneIntersection(p1, p2 mgl64.Vec3, d1, d2 float64) mgl64.Vec3 {
	denom := d1 - d2
	if denom == 0.0 {
		return p1
	}

	t := RpFloatClamp(d1/denom, 0.0, 1.0)
	return p1.Add(p2.Sub(p1).Mul(t))
}
