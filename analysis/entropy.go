// Package analysis classifies the frames of an MPEG audio stream and
// summarizes where it is damaged.
package analysis

import "math"

// Entropy returns the Shannon entropy of data in bits per byte, in [0, 8].
// An empty buffer has zero entropy.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	n := float64(len(data))
	var h float64
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		h -= p * math.Log2(p)
	}
	return h
}
