package hough

import "math"

// Line is a reconstructed line given by two far-apart endpoints, with the
// (rho, theta) bucket it came from.
type Line struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	// Rho is the signed normal distance in pixels.
	Rho int `json:"rho"`

	// Theta is the normal angle in radians.
	Theta float64 `json:"theta"`

	// ThetaDegrees is Theta in whole degrees.
	ThetaDegrees int `json:"theta_degrees"`

	Votes int `json:"votes"`
}

// Reconstruct converts a peak into a line whose endpoints sit extension
// pixels either side of the foot of the normal (x0, y0). Endpoints are
// rounded half away from zero and are not clipped to the image.
func Reconstruct(p Peak, space *ParameterSpace, extension int) Line {
	rho := space.Rhos[p.RhoIndex]
	theta := space.Thetas[p.ThetaIndex]

	a, b := math.Cos(theta), math.Sin(theta)
	x0, y0 := a*float64(rho), b*float64(rho)
	l := float64(extension)

	return Line{
		X1:           int(math.Round(x0 - l*b)),
		Y1:           int(math.Round(y0 + l*a)),
		X2:           int(math.Round(x0 + l*b)),
		Y2:           int(math.Round(y0 - l*a)),
		Rho:          rho,
		Theta:        theta,
		ThetaDegrees: space.ThetaDegrees(p.ThetaIndex),
		Votes:        p.Votes,
	}
}

// Length returns the Euclidean distance between the endpoints.
func (l Line) Length() float64 {
	dx := float64(l.X2 - l.X1)
	dy := float64(l.Y2 - l.Y1)
	return math.Sqrt(dx*dx + dy*dy)
}
