// Package threads turns the backend's flat comment list into a
// display-ordered thread. The builder is pure: no I/O, no errors, and
// it never drops a comment even when the input is inconsistent.
package threads

import "bracula/internal/remote"

// Threaded is one comment positioned in display order. Depth is the
// nesting level for indentation: 0 for top-level comments and orphans.
type Threaded struct {
	Comment remote.Comment
	Depth   int
}

// Build orders a flat comment list for display.
//
// Top-level comments keep their given order. Each reply is spliced
// directly after its parent's subtree, so replies to the same parent
// accumulate in arrival order and always precede the parent's siblings.
// A reply whose parent is missing from the input (a transiently
// inconsistent fetch) is appended at the end rather than dropped.
// Duplicated IDs are collapsed to their first occurrence, so the output
// length always equals the number of distinct input comments.
func Build(comments []remote.Comment) []Threaded {
	seen := make(map[int64]bool, len(comments))
	var topLevel, replies []remote.Comment
	for _, c := range comments {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
		} else {
			replies = append(replies, c)
		}
	}

	out := make([]Threaded, 0, len(topLevel)+len(replies))
	for _, c := range topLevel {
		out = append(out, Threaded{Comment: c})
	}

	// parentOf records where each placed reply was attached, so a later
	// sibling can skip over a whole already-placed subtree.
	parentOf := make(map[int64]int64, len(replies))

	var orphans []remote.Comment
	for _, reply := range replies {
		parentID := *reply.ParentID
		parentIdx := -1
		for i := range out {
			if out[i].Comment.ID == parentID {
				parentIdx = i
				break
			}
		}
		if parentIdx == -1 {
			orphans = append(orphans, reply)
			continue
		}

		// Splice after the parent, past any subtree already attached
		// under it, so earlier-arriving siblings keep their position.
		pos := parentIdx + 1
		for pos < len(out) && descendsFrom(out[pos].Comment.ID, parentID, parentOf) {
			pos++
		}

		out = append(out, Threaded{})
		copy(out[pos+1:], out[pos:])
		out[pos] = Threaded{Comment: reply, Depth: out[parentIdx].Depth + 1}
		parentOf[reply.ID] = parentID
	}

	// Orphaned replies surface at the end: showing them out of place
	// beats hiding them when the backend is inconsistent.
	for _, c := range orphans {
		out = append(out, Threaded{Comment: c})
	}

	return out
}

// descendsFrom walks the attachment chain from id up to root. The chain
// is acyclic because parents are always placed before their replies,
// but the walk is still bounded by the chain map's size as a guard.
func descendsFrom(id, root int64, parentOf map[int64]int64) bool {
	for steps := 0; steps <= len(parentOf); steps++ {
		parent, ok := parentOf[id]
		if !ok {
			return false
		}
		if parent == root {
			return true
		}
		id = parent
	}
	return false
}
