package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	data := []byte("123456789")
	assert.Equal(t, uint32(0xE3069283), CRC32C(data))
	assert.Equal(t, CRC32C(data), UpdateCRC32C(CRC32C(data[:4]), data[4:]))

	h := NewCRC32C()
	_, _ = h.Write(data[:2])
	_, _ = h.Write(data[2:])
	assert.Equal(t, CRC32C(data), h.Sum32())
	assert.Equal(t, uint32(0), CRC32C(nil))
}
