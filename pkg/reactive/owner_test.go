package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerDisposesEffects(t *testing.T) {
	owner := NewOwner(nil)
	s := NewSignal(0)
	runs := 0
	owner.Run(func() {
		CreateEffect(func() Cleanup {
			_ = s.Get()
			runs++
			return nil
		})
	})
	assert.Equal(t, 1, owner.Effects())

	owner.Dispose()
	assert.True(t, owner.IsDisposed())
	assert.Equal(t, 0, owner.Effects())

	s.Set(1)
	assert.Equal(t, 1, runs)
}

func TestOwnerHierarchy(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	assert.Same(t, root, child.Parent())

	var order []string
	root.OnCleanup(func() { order = append(order, "root:1") })
	root.OnCleanup(func() { order = append(order, "root:2") })
	child.OnCleanup(func() { order = append(order, "child") })

	root.Dispose()
	assert.Equal(t, []string{"child", "root:2", "root:1"}, order)
	assert.True(t, child.IsDisposed())

	ran := false
	root.OnCleanup(func() { ran = true })
	assert.True(t, ran, "cleanup on disposed owner runs immediately")
}

func TestOwnerChildDisposeDetaches(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	child.Dispose()

	root.mu.Lock()
	n := len(root.children)
	root.mu.Unlock()
	assert.Equal(t, 0, n)
	root.Dispose()
}

func TestEffectDisposeUnregistersFromOwner(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	var e *Effect
	WithOwner(owner, func() {
		e = CreateEffect(func() Cleanup { return nil })
	})
	e.Dispose()
	assert.Equal(t, 0, owner.Effects())
}
