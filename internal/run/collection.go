package run

import "github.com/climatevision/explorer/pkg/types"

// Collection maps RunIDs to runs. It is persistent: every change returns a
// new Collection and leaves the receiver intact. IDs are handed out in
// increasing order starting at types.FirstRunID and are never reused.
type Collection struct {
	runs map[types.RunID]Run
	next types.RunID
}

// NewCollection returns an empty collection.
func NewCollection() Collection {
	return Collection{runs: map[types.RunID]Run{}, next: types.FirstRunID}
}

// Restore rebuilds a collection from stored runs. next is raised above the
// highest stored ID if needed.
func Restore(runs map[types.RunID]Run, next types.RunID) Collection {
	c := Collection{runs: make(map[types.RunID]Run, len(runs)), next: next}
	if c.next < types.FirstRunID {
		c.next = types.FirstRunID
	}
	for id, r := range runs {
		c.runs[id] = r
		if id >= c.next {
			c.next = id + 1
		}
	}
	return c
}

func (c Collection) clone() Collection {
	out := Collection{runs: make(map[types.RunID]Run, len(c.runs)+1), next: c.next}
	for id, r := range c.runs {
		out.runs[id] = r
	}
	if out.next < types.FirstRunID {
		out.next = types.FirstRunID
	}
	return out
}

// Add stores r under a fresh ID.
func (c Collection) Add(r Run) (Collection, types.RunID) {
	out := c.clone()
	id := out.next
	out.runs[id] = r
	out.next++
	return out, id
}

// Replace stores r under an existing ID. It reports false, and returns c
// unchanged, if id is unknown.
func (c Collection) Replace(id types.RunID, r Run) (Collection, bool) {
	if _, ok := c.runs[id]; !ok {
		return c, false
	}
	out := c.clone()
	out.runs[id] = r
	return out, true
}

// Remove drops id. Its ID is not handed out again.
func (c Collection) Remove(id types.RunID) Collection {
	if _, ok := c.runs[id]; !ok {
		return c
	}
	out := c.clone()
	delete(out.runs, id)
	return out
}

// Get returns the run stored under id.
func (c Collection) Get(id types.RunID) (Run, bool) {
	r, ok := c.runs[id]
	return r, ok
}

// IDs returns all stored IDs in ascending order.
func (c Collection) IDs() []types.RunID {
	ids := make([]types.RunID, 0, len(c.runs))
	for id := range c.runs {
		ids = append(ids, id)
	}
	types.SortRunIDs(ids)
	return ids
}

// Len returns the number of stored runs.
func (c Collection) Len() int {
	return len(c.runs)
}

// NextID returns the ID the next Add will use.
func (c Collection) NextID() types.RunID {
	if c.next < types.FirstRunID {
		return types.FirstRunID
	}
	return c.next
}
