// Package seed splits one root hash into the ordered sub-seeds that drive the
// individual shapes of a composition.
package seed

import (
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// SubSeeds slices seed into count sub-seeds of digitsPerSeed characters each,
// reading left to right (for "123456789", 3 and 3: 123, 456, 789).
//
// The window grows by one character every time the cursor wraps around the end
// of seed. A window that would run past the end takes the remaining tail plus
// the missing characters from the start. Sub-seed order is significant: the
// i-th sub-seed determines the i-th shape.
//
// The head is never longer than seed itself; when the overflow exceeds it the
// cursor lands past the end and is reset on the next step. Slicing is done on
// bytes, which is exact for the decimal strings the generator passes in.
//
// A count that is not positive yields an empty slice. A digitsPerSeed below 1
// is treated as 1. An empty seed with a positive count is an error.
func SubSeeds(seed string, count, digitsPerSeed int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	if seed == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot split an empty seed into %d sub-seeds", count)
	}
	window := max(digitsPerSeed, 1)

	seeds := make([]string, 0, count)
	cursor := 0
	for len(seeds) < count {
		if cursor >= len(seed) {
			cursor = 0
			window++
		}

		if cursor+window > len(seed) {
			overflow := cursor + window - len(seed)
			seeds = append(seeds, seed[cursor:]+seed[:min(overflow, len(seed))])
			cursor = overflow
			window++
			continue
		}

		seeds = append(seeds, seed[cursor:cursor+window])
		cursor += window
	}
	return seeds, nil
}
