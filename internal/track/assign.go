package track

import (
	"sort"

	"github.com/LdDl/ptv-go/internal/frame"
)

// assign builds each active track's candidate list against next (and
// nextNext, for FRAME4) and dispatches to the configured linking
// algorithm.
func (tr *Tracker) assign(next frame.WorldFrame, nextNext *frame.WorldFrame) []int64 {
	links := make([]int64, len(next.Positions))
	for i := range links {
		links[i] = Unlinked
	}
	if len(tr.active) == 0 || len(next.Positions) == 0 {
		return links
	}

	table := make([][]candidate, len(tr.active))
	for ti, id := range tr.active {
		table[ti] = tr.tracks[id].candidates(tr.cfg.Mode, next, nextNext, tr.cfg.MaxDisp)
	}

	if tr.cfg.Linking == AssignHungarian {
		return tr.assignHungarian(table, links)
	}
	return tr.assignGreedy(table, links)
}

// assignGreedy has each track nominate its single lowest-cost
// candidate, then resolves contested detections in ascending cost
// order: the cheapest bidder wins, losers stay unlinked this frame.
func (tr *Tracker) assignGreedy(table [][]candidate, links []int64) []int64 {
	type bid struct {
		trackID int64
		det     int
		cost    float64
	}
	var bids []bid
	for ti, cands := range table {
		if len(cands) == 0 {
			continue
		}
		best := cands[0]
		for _, c := range cands[1:] {
			if c.cost < best.cost {
				best = c
			}
		}
		bids = append(bids, bid{trackID: tr.active[ti], det: best.index, cost: best.cost})
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].cost < bids[j].cost })

	claimed := make(map[int64]bool, len(bids))
	for _, b := range bids {
		if claimed[b.trackID] || links[b.det] != Unlinked {
			continue
		}
		links[b.det] = b.trackID
		claimed[b.trackID] = true
	}
	return links
}
