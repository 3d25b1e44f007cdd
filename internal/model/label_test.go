package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalInteractions(t *testing.T) {
	p := Post{DiggCount: 3000, ShareCount: 2000, CommentCount: 1000, PlayCount: 4001}
	assert.Equal(t, 10001, TotalInteractions(p))
}

func TestPopularityLabelThreshold(t *testing.T) {
	over := Post{DiggCount: 3000, ShareCount: 2000, CommentCount: 1000, PlayCount: 4001}
	assert.Equal(t, 1, PopularityLabel(over, DefaultPopularityThreshold))

	// A tie at exactly the threshold is not popular.
	tie := Post{DiggCount: 3000, ShareCount: 2000, CommentCount: 1000, PlayCount: 4000}
	assert.Equal(t, 0, PopularityLabel(tie, DefaultPopularityThreshold))

	assert.Equal(t, 0, PopularityLabel(Post{}, DefaultPopularityThreshold))
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, LabelPopular, DisplayLabel(1))
	assert.Equal(t, LabelNotPopular, DisplayLabel(0))
}
