package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_InOrder(t *testing.T) {
	gen := NewFixedIDGenerator("c-1", "c-2")

	assert.Equal(t, "c-1", gen.Generate())
	assert.Equal(t, "c-2", gen.Generate())
	assert.PanicsWithValue(t, "FixedIDGenerator: all IDs exhausted", func() { gen.Generate() })
}

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("cmp")

	assert.Equal(t, "cmp-0001", gen.Generate())
	assert.Equal(t, "cmp-0002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "cmp-0001", gen.Generate())
}

func TestSequentialIDGenerator_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "test-0001", NewSequentialIDGenerator("").Generate())
}

func TestSequentialIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialIDGenerator("t")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
	assert.Equal(t, "t-1001", gen.Generate())
}
