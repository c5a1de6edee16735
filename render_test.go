package jsondoc

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRetention(t *testing.T, n int) {
	t.Helper()
	SetRenderRetention(n)
	t.Cleanup(func() { SetRenderRetention(DefaultRenderRetention) })
}

func TestRenderCacheSurvivesCollection(t *testing.T) {
	withRetention(t, 0)

	obj := MustParseObj(t, `{"a":[1,2,{"b":"c"}],"d":1.25}`)
	first := obj.String()
	for i := 0; i < 3; i++ {
		runtime.GC()
	}
	assert.Equal(t, first, obj.String())
	assert.Equal(t, `{"a":[1,2,{"b":"c"}],"d":1.25}`, first)
}

func TestRenderUsesCachedChildText(t *testing.T) {
	inner := MustParseObj(t, `{"x":" "}`)
	innerText := inner.String()

	outer := EmptyObject().With("inner", inner.AsValue()).With("n", Int(1))
	assert.Equal(t, `{"inner":`+innerText+`,"n":1}`, outer.String())
}

func TestRenderRetentionStats(t *testing.T) {
	withRetention(t, 4)

	for i := 0; i < 10; i++ {
		_ = EmptyObject().With("i", Int(int32(i))).String()
	}
	stats := RenderRetentionStats()
	assert.Equal(t, 4, stats.Capacity)
	assert.Equal(t, int64(10), stats.Retained)
	assert.Equal(t, int64(6), stats.Evictions)

	t.Run("cached renders are not retained twice", func(t *testing.T) {
		obj := EmptyObject().With("k", String("v"))
		_ = obj.String()
		_ = obj.String()
		assert.Equal(t, int64(11), RenderRetentionStats().Retained)
	})

	t.Run("disabled", func(t *testing.T) {
		SetRenderRetention(0)
		_ = NewArray(Int(1)).String()
		assert.Equal(t, RetentionStats{}, RenderRetentionStats())
	})
}

func TestRenderConcurrent(t *testing.T) {
	withRetention(t, 8)

	docs := make([]*Object, 16)
	for i := range docs {
		docs[i] = EmptyObject().With("id", Int(int32(i))).With("tags", ArrayOf(String("a"), String("b")))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < 50; round++ {
				for i, doc := range docs {
					want := fmt.Sprintf(`{"id":%d,"tags":["a","b"]}`, i)
					if got := doc.String(); got != want {
						t.Errorf("doc %d rendered %s", i, got)
						return
					}
				}
				if round%10 == 0 {
					runtime.GC()
				}
			}
		}()
	}
	wg.Wait()
	require.False(t, t.Failed())
}
