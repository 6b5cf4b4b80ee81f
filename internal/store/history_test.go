package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

func TestRing_FIFOEviction(t *testing.T) {
	r := newRing(3)
	for i := 1; i <= 5; i++ {
		r.push(contract.HistoryEntry{Query: fmt.Sprintf("q%d", i), Timestamp: time.Now()})
	}

	require.Equal(t, 3, r.len())
	newest := r.newestFirst()
	assert.Equal(t, "q5", newest[0].Query)
	assert.Equal(t, "q4", newest[1].Query)
	assert.Equal(t, "q3", newest[2].Query)
}

func TestRing_NewestFirstIsACopy(t *testing.T) {
	r := newRing(3)
	r.push(contract.HistoryEntry{Query: "original"})

	out := r.newestFirst()
	out[0].Query = "mutated"
	assert.Equal(t, "original", r.newestFirst()[0].Query)
}

func TestRing_Empty(t *testing.T) {
	r := newRing(3)
	assert.Empty(t, r.newestFirst())
}
