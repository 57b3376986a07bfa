package track

import (
	"github.com/arthurkushman/go-hungarian"
)

// assignHungarian solves the full track-by-detection cost table with
// the Hungarian algorithm instead of the default nominate-then-resolve
// greedy pass, mirroring ByteTracker's padded-matrix Hungarian/Greedy
// switch almost exactly: build a cost matrix, pad it to square, and
// call hungarian.SolveMax. Since go-hungarian maximizes similarity
// rather than minimizing cost, every candidate's squared-displacement
// cost is converted to a bounded similarity score (ceiling − cost) and
// every non-candidate cell is pinned below zero so padding is never
// preferred over a real link.
func (tr *Tracker) assignHungarian(table [][]candidate, links []int64) []int64 {
	numTracks := len(table)
	numDets := len(links)
	size := numTracks
	if numDets > size {
		size = numDets
	}

	var worstCost float64
	for _, cands := range table {
		for _, c := range cands {
			if c.cost > worstCost {
				worstCost = c.cost
			}
		}
	}
	ceiling := worstCost + 1

	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
		for j := range matrix[i] {
			matrix[i][j] = -1
		}
	}
	for ti, cands := range table {
		for _, c := range cands {
			score := ceiling - c.cost
			if score > matrix[ti][c.index] {
				matrix[ti][c.index] = score
			}
		}
	}

	assignments := hungarian.SolveMax(matrix)
	for ti, rowMap := range assignments {
		if ti >= numTracks {
			continue
		}
		for di, score := range rowMap {
			if di >= numDets || score < 0 {
				continue
			}
			links[di] = tr.active[ti]
		}
	}
	return links
}
