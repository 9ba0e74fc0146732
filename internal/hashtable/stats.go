package hashtable

// Stats describes how entries are spread across buckets.
type Stats struct {
	Size         int         `json:"size"`
	InitialSize  int         `json:"initial_size"`
	Count        int         `json:"count"`
	LoadFactor   float64     `json:"load_factor"`
	EmptyBuckets int         `json:"empty_buckets"`
	LongestChain int         `json:"longest_chain"`
	ChainLengths map[int]int `json:"chain_lengths"` // chain length -> number of buckets
}

// Stats walks the buckets and reports occupancy.
func (h *HashTable) Stats() Stats {
	st := Stats{
		Size:         len(h.buckets),
		InitialSize:  h.initialSize,
		Count:        h.count,
		LoadFactor:   h.LoadFactor(),
		ChainLengths: make(map[int]int),
	}
	for _, bucket := range h.buckets {
		n := len(bucket)
		if n == 0 {
			st.EmptyBuckets++
		}
		if n > st.LongestChain {
			st.LongestChain = n
		}
		st.ChainLengths[n]++
	}
	return st
}
