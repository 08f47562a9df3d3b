package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpTextGenerate, 100*time.Millisecond, nil)
	c.Record(OpTextGenerate, 300*time.Millisecond, errors.New("boom"))
	c.Record(OpWebSearch, 50*time.Millisecond, nil)

	snap := c.GetSnapshot()

	gen := snap.Operations[OpTextGenerate]
	assert.Equal(t, int64(2), gen.Count)
	assert.Equal(t, int64(1), gen.Errors)
	assert.Equal(t, int64(100), gen.MinTimeMs)
	assert.Equal(t, int64(300), gen.MaxTimeMs)
	assert.InDelta(t, 200, gen.AvgTimeMs, 0.001)

	search := snap.Operations[OpWebSearch]
	assert.Equal(t, int64(1), search.Count)
	assert.Zero(t, search.Errors)
}

func TestObserveRecordsDeferredOutcome(t *testing.T) {
	c := NewCollector()

	run := func(fail bool) (err error) {
		defer c.Observe(OpSTT, time.Now(), &err)
		if fail {
			return errors.New("boom")
		}
		return nil
	}

	assert.NoError(t, run(false))
	assert.Error(t, run(true))

	stt := c.GetSnapshot().Operations[OpSTT]
	assert.Equal(t, int64(2), stt.Count)
	assert.Equal(t, int64(1), stt.Errors)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()
	done := make(chan struct{})

	for range 8 {
		go func() {
			for range 100 {
				c.Record(OpDeepResearch, time.Millisecond, nil)
			}
			done <- struct{}{}
		}()
	}
	for range 8 {
		<-done
	}

	assert.Equal(t, int64(800), c.GetSnapshot().Operations[OpDeepResearch].Count)
}
