package hough

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minPointsPerWorker keeps small inputs on a single goroutine; below this a
// private grid per worker costs more than the votes it saves.
const minPointsPerWorker = 512

// Accumulator is the dense vote grid, Rows rho buckets by Cols theta buckets.
type Accumulator struct {
	Rows  int
	Cols  int
	Votes []int
}

// NewAccumulator allocates a zeroed grid.
func NewAccumulator(rows, cols int) *Accumulator {
	return &Accumulator{
		Rows:  rows,
		Cols:  cols,
		Votes: make([]int, rows*cols),
	}
}

// At returns the votes of cell (rho, theta).
func (a *Accumulator) At(rho, theta int) int {
	return a.Votes[rho*a.Cols+theta]
}

// Max returns the first cell (in row-major order) holding the largest vote.
func (a *Accumulator) Max() (rho, theta, votes int) {
	best := -1
	for i, v := range a.Votes {
		if v > best {
			best = v
			rho, theta = i/a.Cols, i%a.Cols
		}
	}
	if best < 0 {
		return 0, 0, 0
	}
	return rho, theta, best
}

// Total returns the sum of all votes.
func (a *Accumulator) Total() int {
	total := 0
	for _, v := range a.Votes {
		total += v
	}
	return total
}

// Vote casts one vote per theta bucket for every point.
//
// rho = RoundToEven(x·cosθ + y·sinθ) and the vote lands in bucket
// rho + DiagLen; votes falling outside [0, RhoCount) are dropped. The points
// are split across up to workers goroutines, each filling a private grid;
// grids are summed in worker order once all have finished.
func Vote(points []EdgePoint, space *ParameterSpace, workers int) *Accumulator {
	rows, cols := space.RhoCount(), space.ThetaCount()
	acc := NewAccumulator(rows, cols)
	if len(points) == 0 {
		return acc
	}

	cos := make([]float64, cols)
	sin := make([]float64, cols)
	for t, theta := range space.Thetas {
		cos[t] = math.Cos(theta)
		sin[t] = math.Sin(theta)
	}

	n := workerCount(workers, len(points), minPointsPerWorker)
	if n == 1 {
		castVotes(acc.Votes, points, cos, sin, space.DiagLen, rows, cols)
		return acc
	}

	partials := make([][]int, n)
	chunk := (len(points) + n - 1) / n
	var g errgroup.Group
	for w := 0; w < n; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			grid := make([]int, rows*cols)
			castVotes(grid, points[lo:hi], cos, sin, space.DiagLen, rows, cols)
			partials[w] = grid
			return nil
		})
	}
	_ = g.Wait()

	for _, grid := range partials {
		for i, v := range grid {
			acc.Votes[i] += v
		}
	}
	return acc
}

func castVotes(grid []int, points []EdgePoint, cos, sin []float64, diag, rows, cols int) {
	for _, p := range points {
		x, y := float64(p.X), float64(p.Y)
		for t := 0; t < cols; t++ {
			rho := int(math.RoundToEven(x*cos[t] + y*sin[t]))
			idx := rho + diag
			if idx >= 0 && idx < rows {
				grid[idx*cols+t]++
			}
		}
	}
}

// workerCount picks how many goroutines to use for n items.
func workerCount(requested, n, minPerWorker int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if limit := n / minPerWorker; w > limit {
		w = limit
	}
	if w < 1 {
		w = 1
	}
	return w
}
