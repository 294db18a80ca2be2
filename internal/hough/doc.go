// Package hough detects straight lines in a binary edge mask with the
// classical Hough transform.
//
// # Pipeline
//
// A detection run is a pure function of an EdgeMask and a Config:
//
//  1. ParameterSpace: theta buckets over [ThetaMin, ThetaMax) in ThetaStep
//     degree steps, rho buckets over [-diag, diag) at unit step, where diag is
//     ceil(sqrt(height² + width²)).
//  2. Vote: every edge point casts one vote per theta bucket into the rho
//     bucket round(x·cosθ + y·sinθ) + diag. Rounding is half-to-even.
//  3. ExtractPeaks: a cell is a peak when it equals the maximum of its
//     border-truncated suppression window and strictly exceeds VoteThreshold.
//     Equal neighbouring maxima are all reported.
//  4. Reconstruct: each peak becomes a Line whose endpoints lie
//     ExtensionLength pixels either side of the foot of the normal.
//
// Render draws lines over a copy of a base image.
//
// # Coordinate System
//
// Origin (0, 0) is the top-left pixel, X grows rightward and Y downward.
// Theta is the angle of the line normal measured from the X axis towards Y,
// so theta = 0 describes a vertical line and theta = -90° a horizontal one.
//
// # Concurrency
//
// Nothing is shared between runs. Within a run, voting splits edge points
// across workers with private grids summed at the end, and the peak scan
// splits rows. Both phases are synchronous; Detect only consults its context
// between phases.
package hough
