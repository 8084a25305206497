//go:build !threadlocal_osthread || !(linux || windows)

package threadlocal

import (
	"testing"

	"github.com/IvanBrykalov/threadlocal/internal/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var packageLevel = Const(5, Options[int]{})

func TestConst_FreshGoroutineSeesSeed(t *testing.T) {
	*packageLevel.Get() = 99

	var other int
	onOtherGoroutine(func() { other = packageLevel.Value() })

	assert.Equal(t, 5, other)
	assert.Equal(t, 99, packageLevel.Value())
}

func TestConst_KeyAllocatedOnFirstAccess(t *testing.T) {
	before := slot.InUse()
	tl := Const("seed", Options[string]{})
	assert.Equal(t, before, slot.InUse(), "Const must not allocate a key")

	assert.Equal(t, "seed", tl.Value())
	assert.Equal(t, before+1, slot.InUse())

	require.NoError(t, tl.Close())
	assert.Equal(t, before, slot.InUse())
}

func TestConst_CloseBeforeAccess(t *testing.T) {
	tl := Const(1, Options[int]{})
	require.NoError(t, tl.Close())
	assert.PanicsWithValue(t, ErrClosed, func() { tl.Get() })
}

// buf shares its backing array on a plain copy; Clone gives each copy its own.
type buf struct{ b []byte }

func (x buf) Clone() buf { return buf{b: append([]byte(nil), x.b...)} }

func TestConst_UsesClone(t *testing.T) {
	tl := Const(buf{b: []byte("abc")}, Options[buf]{})
	t.Cleanup(func() { _ = tl.Close() })

	tl.Get().b[0] = 'X'

	var other string
	onOtherGoroutine(func() { other = string(tl.Value().b) })
	assert.Equal(t, "abc", other)
	assert.Equal(t, "Xbc", string(tl.Value().b))
}
