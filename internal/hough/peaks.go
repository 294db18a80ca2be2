package hough

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// minRowsPerWorker bounds how finely the peak scan is split.
const minRowsPerWorker = 64

// Peak is an accumulator cell accepted as a line candidate.
type Peak struct {
	RhoIndex   int `json:"rho_index"`
	ThetaIndex int `json:"theta_index"`
	Votes      int `json:"votes"`
}

// ExtractPeaks returns every cell whose votes exceed threshold and equal the
// maximum of its windowHeight x windowWidth neighbourhood. Cells tied for a
// neighbourhood maximum are all kept. Peaks come back ordered by rho index,
// then theta index.
func ExtractPeaks(acc *Accumulator, windowHeight, windowWidth, threshold, workers int) ([]Peak, error) {
	if windowHeight <= 0 || windowWidth <= 0 {
		return nil, fmt.Errorf("%w: suppression window must be positive, got %dx%d", ErrInvalidConfiguration, windowHeight, windowWidth)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: vote threshold must not be negative, got %d", ErrInvalidConfiguration, threshold)
	}

	peaks := make([]Peak, 0)
	if acc.Rows == 0 || acc.Cols == 0 {
		return peaks, nil
	}

	maxed := WindowMax(acc, windowHeight, windowWidth, workers)
	for i, v := range acc.Votes {
		if v > threshold && v == maxed[i] {
			peaks = append(peaks, Peak{
				RhoIndex:   i / acc.Cols,
				ThetaIndex: i % acc.Cols,
				Votes:      v,
			})
		}
	}
	return peaks, nil
}

// WindowMax computes, for every cell, the maximum over a centred
// windowHeight x windowWidth window truncated at the grid borders.
//
// A window of size n covers offsets -n/2 through n-1-n/2, so even sizes lean
// towards lower indices. The filter runs as two 1-D passes (along theta,
// then along rho); each pass is split into row ranges that only read shared
// input.
func WindowMax(acc *Accumulator, windowHeight, windowWidth, workers int) []int {
	rows, cols := acc.Rows, acc.Cols
	out := make([]int, len(acc.Votes))
	if rows == 0 || cols == 0 {
		return out
	}

	loW, hiW := windowWidth/2, windowWidth-1-windowWidth/2
	loH, hiH := windowHeight/2, windowHeight-1-windowHeight/2

	horizontal := make([]int, len(acc.Votes))
	forRowRanges(rows, workers, func(r0, r1 int) {
		for r := r0; r < r1; r++ {
			src := acc.Votes[r*cols : (r+1)*cols]
			dst := horizontal[r*cols : (r+1)*cols]
			for c := 0; c < cols; c++ {
				m := src[c]
				for k := max(0, c-loW); k <= min(cols-1, c+hiW); k++ {
					if src[k] > m {
						m = src[k]
					}
				}
				dst[c] = m
			}
		}
	})

	forRowRanges(rows, workers, func(r0, r1 int) {
		for r := r0; r < r1; r++ {
			k0, k1 := max(0, r-loH), min(rows-1, r+hiH)
			for c := 0; c < cols; c++ {
				m := horizontal[r*cols+c]
				for k := k0; k <= k1; k++ {
					if v := horizontal[k*cols+c]; v > m {
						m = v
					}
				}
				out[r*cols+c] = m
			}
		}
	})
	return out
}

// forRowRanges runs fn over disjoint [r0, r1) ranges covering [0, rows).
func forRowRanges(rows, workers int, fn func(r0, r1 int)) {
	n := workerCount(workers, rows, minRowsPerWorker)
	if n == 1 {
		fn(0, rows)
		return
	}
	chunk := (rows + n - 1) / n
	var g errgroup.Group
	for r0 := 0; r0 < rows; r0 += chunk {
		r1 := min(r0+chunk, rows)
		g.Go(func() error {
			fn(r0, r1)
			return nil
		})
	}
	_ = g.Wait()
}
