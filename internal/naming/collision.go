package naming

import (
	"fmt"
	"sync"
)

// CollisionResolver tracks output directories claimed by input directories
// and resolves duplicate basenames by appending " - dupN" suffixes. Two
// distinct inputs both named ".../vol1" would otherwise write into the same
// output directory and overwrite each other's document. It is safe for
// sequential use within a single batch run. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output dir → input dir that owns it
	counters map[string]int    // requested output dir → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output directory for input, handling collisions.
// If requestedDir is unclaimed (or already owned by input), it is returned
// as-is. Otherwise a " - dupN" variant is generated. Directory names are not
// split on dots; a dup suffix always appends to the full basename.
func (cr *CollisionResolver) Resolve(input, requestedDir string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requestedDir]
	if !exists || owner == input {
		cr.owners[requestedDir] = input
		return requestedDir
	}

	counter := cr.counters[requestedDir]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := fmt.Sprintf("%s - dup%d", requestedDir, counter)
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == input {
			cr.counters[requestedDir] = counter + 1
			cr.owners[candidate] = input
			return candidate
		}
		counter++
	}
}
