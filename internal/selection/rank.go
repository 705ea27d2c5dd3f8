package selection

import "container/heap"

type rankEntry[P Problem] struct {
	item    *ScoredItem[P]
	utility float64
	seq     int
}

// rankHeap is a min-heap on utility; seq breaks ties in insertion order.
type rankHeap[P Problem] []rankEntry[P]

func (h rankHeap[P]) Len() int { return len(h) }

func (h rankHeap[P]) Less(i, j int) bool {
	if h[i].utility != h[j].utility {
		return h[i].utility < h[j].utility
	}
	return h[i].seq < h[j].seq
}

func (h rankHeap[P]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankHeap[P]) Push(x any) { *h = append(*h, x.(rankEntry[P])) }

func (h *rankHeap[P]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// popN pops the n lowest entries and returns copies of their items.
func (h rankHeap[P]) popN(n int) []ScoredItem[P] {
	heap.Init(&h)
	n = min(n, h.Len())
	result := make([]ScoredItem[P], 0, n)
	for range n {
		entry := heap.Pop(&h).(rankEntry[P])
		result = append(result, *entry.item)
	}
	return result
}
