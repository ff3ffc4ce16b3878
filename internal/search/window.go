package search

// minWindow computes the size of the smallest contiguous span covering at
// least one position from every list: min over all choices of
// max(chosen) - min(chosen). Position lists are ascending. The sweep holds
// one current position per list and repeatedly promotes the globally
// smallest unconsumed position, so it runs in O(sum of list lengths * k).
// Returns -1 when any list is empty.
func minWindow(lists [][]int) int {
	if len(lists) == 0 {
		return -1
	}

	current := make([]int, len(lists))
	next := make([]int, len(lists))
	for i, l := range lists {
		if len(l) == 0 {
			return -1
		}
		current[i] = l[0]
		next[i] = 1
	}

	span := func() int {
		lo, hi := current[0], current[0]
		for _, v := range current[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return hi - lo
	}

	best := span()
	for {
		minIdx := -1
		minVal := 0
		for i, l := range lists {
			if next[i] < len(l) && (minIdx < 0 || l[next[i]] < minVal) {
				minIdx = i
				minVal = l[next[i]]
			}
		}
		if minIdx < 0 {
			return best
		}
		current[minIdx] = minVal
		next[minIdx]++
		if s := span(); s < best {
			best = s
		}
	}
}

// applyWindowBoost rescales document scores by B / (1 + window), floored at
// 1. Only documents containing at least minWindowSize of the query's
// content terms participate.
func applyWindowBoost(scores map[string]float64, docPositions map[string]map[string][]int, minWindowSize, boost int) {
	for docID, termPositions := range docPositions {
		if len(termPositions) < minWindowSize {
			continue
		}
		lists := make([][]int, 0, len(termPositions))
		for _, positions := range termPositions {
			lists = append(lists, positions)
		}

		window := minWindow(lists)
		if window < 0 {
			continue
		}
		multiplier := float64(boost) / float64(1+window)
		if multiplier < 1 {
			multiplier = 1
		}
		scores[docID] *= multiplier
	}
}
