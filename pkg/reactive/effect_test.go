package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectRunsOnCreate(t *testing.T) {
	ran := false
	e := CreateEffect(func() Cleanup {
		ran = true
		return nil
	})
	defer e.Dispose()
	assert.True(t, ran)
}

func TestEffectRerunsSynchronously(t *testing.T) {
	count := NewSignal(0)
	var seen []int
	e := CreateEffect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Set(2)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestEffectCleanupOrder(t *testing.T) {
	s := NewSignal(0)
	var log []string
	e := CreateEffect(func() Cleanup {
		v := s.Get()
		log = append(log, "run")
		return func() {
			log = append(log, "cleanup")
			_ = v
		}
	})

	s.Set(1)
	e.Dispose()
	e.Dispose()

	assert.Equal(t, []string{"run", "cleanup", "run", "cleanup"}, log)
	assert.True(t, e.Disposed())

	s.Set(2)
	assert.Len(t, log, 4)
	assert.Equal(t, 0, s.base.subscriberCount())
}

func TestEffectWriteDuringRunIsDeferred(t *testing.T) {
	source := NewSignal(0)
	derived := NewSignal(0)

	var order []string
	e1 := CreateEffect(func() Cleanup {
		v := source.Get()
		order = append(order, "first:start")
		derived.Set(v * 10)
		order = append(order, "first:end")
		return nil
	}, EffectName("first"))
	defer e1.Dispose()

	e2 := CreateEffect(func() Cleanup {
		order = append(order, "second")
		_ = derived.Get()
		return nil
	}, EffectName("second"))
	defer e2.Dispose()

	order = nil
	source.Set(1)
	assert.Equal(t, []string{"first:start", "first:end", "second"}, order)
	assert.Equal(t, 10, derived.Peek())
}

func TestEffectFlushBudget(t *testing.T) {
	prev := SetFlushBudget(20)
	defer SetFlushBudget(prev)

	a := NewSignal(0)
	var e *Effect
	start := NewSignal(false)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*FlushBudgetError)
		require.True(t, ok)
		assert.Equal(t, 20, err.Runs)
		assert.Contains(t, err.Error(), "loop")
		if e != nil {
			e.Dispose()
		}

		// The queue is usable again after the panic.
		b := NewSignal(0)
		runs := 0
		e2 := CreateEffect(func() Cleanup {
			_ = b.Get()
			runs++
			return nil
		})
		b.Set(1)
		assert.Equal(t, 2, runs)
		e2.Dispose()
	}()

	e = CreateEffect(func() Cleanup {
		if start.Get() {
			v := a.Get()
			a.Set(v + 1)
		}
		return nil
	}, EffectName("loop"))
	start.Set(true)
	t.Fatal("expected flush budget panic")
}

func TestUntracked(t *testing.T) {
	tracked := NewSignal(0)
	ignored := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = tracked.Get()
		Untracked(func() {
			_ = ignored.Get()
			assert.False(t, IsTracking())
		})
		assert.True(t, IsTracking())
		runs++
		return nil
	})
	defer e.Dispose()

	ignored.Set(1)
	assert.Equal(t, 1, runs)
	tracked.Set(1)
	assert.Equal(t, 2, runs)

	v := UntrackedGet(func() int { return ignored.Get() })
	assert.Equal(t, 1, v)
}

func TestBatch(t *testing.T) {
	first := NewSignal("a")
	last := NewSignal("b")
	var seen []string
	e := CreateEffect(func() Cleanup {
		seen = append(seen, first.Get()+last.Get())
		return nil
	})
	defer e.Dispose()

	Batch(func() {
		first.Set("x")
		Batch(func() {
			last.Set("y")
		})
		assert.Len(t, seen, 1, "nested batch does not flush")
	})
	assert.Equal(t, []string{"ab", "xy"}, seen)
}

func TestEffectWritingOnFirstRunDoesNotReenter(t *testing.T) {
	s := NewSignal(0)
	depth, maxDepth, runs := 0, 0, 0
	e := CreateEffect(func() Cleanup {
		depth++
		defer func() { depth-- }()
		if depth > maxDepth {
			maxDepth = depth
		}
		runs++
		if v := s.Get(); v < 3 {
			s.Set(v + 1)
		}
		return nil
	})
	defer e.Dispose()

	assert.Equal(t, 3, s.Peek())
	assert.Equal(t, 4, runs)
	assert.Equal(t, 1, maxDepth)
}
