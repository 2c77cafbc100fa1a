package cancel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagStartsClear(t *testing.T) {
	f := New()
	assert.False(t, f.IsSet())
}

func TestFlagSetAndReset(t *testing.T) {
	f := New()
	f.Set()
	assert.True(t, f.IsSet())
	f.Reset()
	assert.False(t, f.IsSet())
}

func TestFlagConcurrentSet(t *testing.T) {
	f := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Set()
		}()
	}
	wg.Wait()
	assert.True(t, f.IsSet())
}
