package engine

import "github.com/hailam/chessduel/internal/board"

const (
	killerSlotSize = 4 // Entries kept per depth
	killersTried   = 2 // Entries tried before the board scan
)

// killerEntry is a move that caused a cutoff, with its cutoff weight.
type killerEntry struct {
	from, to board.Square
	weight   int
}

// killerSlot holds the ranked killer moves of one depth. Entries are kept
// sorted by weight, highest first; equal weights keep insertion order.
type killerSlot struct {
	entries [killerSlotSize]killerEntry
	n       int
}

func (ks *killerSlot) find(from, to board.Square) int {
	for i := 0; i < ks.n; i++ {
		if ks.entries[i].from == from && ks.entries[i].to == to {
			return i
		}
	}
	return -1
}

// bubbleUp moves entry i towards the front while it outweighs its neighbor.
func (ks *killerSlot) bubbleUp(i int) {
	for i > 0 && ks.entries[i].weight > ks.entries[i-1].weight {
		ks.entries[i], ks.entries[i-1] = ks.entries[i-1], ks.entries[i]
		i--
	}
}

// sinkDown moves entry i towards the back while a neighbor outweighs it.
func (ks *killerSlot) sinkDown(i int) {
	for i+1 < ks.n && ks.entries[i+1].weight > ks.entries[i].weight {
		ks.entries[i], ks.entries[i+1] = ks.entries[i+1], ks.entries[i]
		i++
	}
}

func (ks *killerSlot) remove(i int) {
	copy(ks.entries[i:ks.n], ks.entries[i+1:ks.n])
	ks.n--
	ks.entries[ks.n] = killerEntry{}
}

// KillerTable records, per search depth, the moves that caused beta
// cutoffs. Depth 0 is the root and never uses killers.
type KillerTable struct {
	slots []killerSlot
}

// NewKillerTable creates a table for a search of the given maximum depth.
func NewKillerTable(maxDepth int) *KillerTable {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &KillerTable{slots: make([]killerSlot, maxDepth)}
}

func (kt *KillerTable) slot(depth int) *killerSlot {
	if depth <= 0 || depth >= len(kt.slots) {
		return nil
	}
	return &kt.slots[depth]
}

// Reward records a cutoff by from-to at depth: the weight of a known entry
// goes up by one, a new entry starts at one. A full slot drops its
// lowest-weighted entry to make room.
func (kt *KillerTable) Reward(depth int, from, to board.Square) {
	ks := kt.slot(depth)
	if ks == nil {
		return
	}
	if i := ks.find(from, to); i >= 0 {
		ks.entries[i].weight++
		ks.bubbleUp(i)
		return
	}
	if ks.n == killerSlotSize {
		ks.remove(ks.n - 1)
	}
	ks.entries[ks.n] = killerEntry{from: from, to: to, weight: 1}
	ks.n++
	ks.bubbleUp(ks.n - 1)
}

// Penalize lowers the weight of a killer that was tried and did not cut
// off. An entry whose weight reaches zero is evicted.
func (kt *KillerTable) Penalize(depth int, from, to board.Square) {
	ks := kt.slot(depth)
	if ks == nil {
		return
	}
	i := ks.find(from, to)
	if i < 0 {
		return
	}
	ks.entries[i].weight--
	if ks.entries[i].weight <= 0 {
		ks.remove(i)
		return
	}
	ks.sinkDown(i)
}

// Best returns up to killersTried killers for depth, highest weight first.
func (kt *KillerTable) Best(depth int) (moves [killersTried][2]board.Square, n int) {
	ks := kt.slot(depth)
	if ks == nil {
		return moves, 0
	}
	for n < killersTried && n < ks.n {
		moves[n] = [2]board.Square{ks.entries[n].from, ks.entries[n].to}
		n++
	}
	return moves, n
}

// Weight returns the recorded weight of from-to at depth, 0 if absent.
func (kt *KillerTable) Weight(depth int, from, to board.Square) int {
	ks := kt.slot(depth)
	if ks == nil {
		return 0
	}
	if i := ks.find(from, to); i >= 0 {
		return ks.entries[i].weight
	}
	return 0
}

// Len returns the number of killers stored for depth.
func (kt *KillerTable) Len(depth int) int {
	if ks := kt.slot(depth); ks != nil {
		return ks.n
	}
	return 0
}

// Clear empties every slot.
func (kt *KillerTable) Clear() {
	for i := range kt.slots {
		kt.slots[i] = killerSlot{}
	}
}
