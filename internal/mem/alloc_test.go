package mem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAlignedFloat64(t *testing.T) {
	for _, size := range []int{1, 7, 8, 9, 100, 1024} {
		buf := AllocAlignedFloat64(size)
		require.Len(t, buf, size)
		assert.Equal(t, size, cap(buf))
		assert.True(t, IsAligned(buf), "size %d", size)

		for _, v := range buf {
			assert.Zero(t, v)
		}
		buf[size-1] = 3.5
		assert.Equal(t, 3.5, buf[size-1])
	}

	assert.Nil(t, AllocAlignedFloat64(0))
	assert.Nil(t, AllocAlignedFloat64(-1))
}

func TestIsAligned(t *testing.T) {
	buf := AllocAlignedFloat64(16)
	assert.True(t, IsAligned(buf))
	assert.False(t, IsAligned(buf[1:]))
	assert.True(t, IsAligned(buf[8:]))
	assert.True(t, IsAligned(nil))
}

func BenchmarkAllocAlignedFloat64(b *testing.B) {
	for _, size := range []int{16, 256, 4096, 1 << 16} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = AllocAlignedFloat64(size)
			}
		})
	}
}
