package threads

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bracula/internal/remote"
)

func comment(id int64, parentID *int64) remote.Comment {
	return remote.Comment{ID: id, ParentID: parentID, PostID: 1}
}

func parent(id int64) *int64 { return &id }

func ids(t []Threaded) []int64 {
	out := make([]int64, len(t))
	for i, c := range t {
		out[i] = c.Comment.ID
	}
	return out
}

func TestBuildOrdersRepliesAfterParents(t *testing.T) {
	input := []remote.Comment{
		comment(1, nil),
		comment(2, parent(1)),
		comment(3, nil),
		comment(4, parent(2)),
	}

	got := Build(input)

	assert.Equal(t, []int64{1, 2, 4, 3}, ids(got))
	assert.Equal(t, 0, got[0].Depth)
	assert.Equal(t, 1, got[1].Depth)
	assert.Equal(t, 2, got[2].Depth)
	assert.Equal(t, 0, got[3].Depth)
}

func TestBuildSiblingsAccumulateInArrivalOrder(t *testing.T) {
	input := []remote.Comment{
		comment(1, nil),
		comment(2, parent(1)),
		comment(3, parent(1)),
		comment(4, nil),
	}

	got := Build(input)

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestBuildSiblingAfterNestedSubtree(t *testing.T) {
	// A later sibling must not split an earlier sibling's subtree.
	input := []remote.Comment{
		comment(1, nil),
		comment(2, parent(1)),
		comment(3, parent(2)),
		comment(4, parent(1)),
	}

	got := Build(input)

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
	assert.Equal(t, 1, got[3].Depth)
}

func TestBuildAppendsOrphansInsteadOfDropping(t *testing.T) {
	input := []remote.Comment{
		comment(1, nil),
		comment(5, parent(99)), // parent never fetched
		comment(2, parent(1)),
	}

	got := Build(input)

	assert.Equal(t, []int64{1, 2, 5}, ids(got))
	assert.Equal(t, 0, got[2].Depth)
	assert.Len(t, got, len(input), "no comment may be dropped")
}

func TestBuildDeduplicatesByID(t *testing.T) {
	input := []remote.Comment{
		comment(1, nil),
		comment(2, parent(1)),
		comment(1, nil),
		comment(2, parent(1)),
	}

	got := Build(input)

	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestBuildEveryReplyStrictlyAfterParent(t *testing.T) {
	input := []remote.Comment{
		comment(10, nil),
		comment(14, parent(12)),
		comment(11, nil),
		comment(12, parent(10)),
		comment(13, parent(11)),
		comment(15, parent(10)),
		comment(16, nil),
	}

	got := Build(input)

	assert.Len(t, got, len(input))
	position := make(map[int64]int, len(got))
	for i, c := range got {
		position[c.Comment.ID] = i
	}
	for _, c := range input {
		if c.ParentID == nil {
			continue
		}
		if _, ok := position[*c.ParentID]; !ok {
			continue // orphan, appended at the end
		}
		assert.Greater(t, position[c.ID], position[*c.ParentID],
			"reply %d must come after parent %d", c.ID, *c.ParentID)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	assert.Empty(t, Build(nil))
}
