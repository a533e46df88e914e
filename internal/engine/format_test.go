package engine

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesPerFrame(t *testing.T) {
	assert.Equal(t, 8, FormatF32.BytesPerFrame())
	assert.Equal(t, 4, FormatI16.BytesPerFrame())
	assert.Equal(t, 4, FormatU16.BytesPerFrame())
}

func TestWriteFrameF32RoundTrips(t *testing.T) {
	buf := make([]byte, 8)
	WriteFrame(buf, 0, FormatF32, 0.5, -0.25)
	l := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	r := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	assert.InDelta(t, 0.5, l, 1e-6)
	assert.InDelta(t, -0.25, r, 1e-6)
}

func TestWriteFrameI16SaturatesAtFullScale(t *testing.T) {
	buf := make([]byte, 4)
	WriteFrame(buf, 0, FormatI16, 2.0, -2.0) // out of range, must clamp
	l := int16(binary.LittleEndian.Uint16(buf[0:2]))
	r := int16(binary.LittleEndian.Uint16(buf[2:4]))
	assert.Equal(t, int16(32767), l)
	assert.Equal(t, int16(-32767), r)
}

func TestWriteFrameI16ZeroIsZero(t *testing.T) {
	buf := make([]byte, 4)
	WriteFrame(buf, 0, FormatI16, 0, 0)
	assert.EqualValues(t, 0, binary.LittleEndian.Uint16(buf[0:2]))
}

func TestWriteFrameU16CentersAtHalfScale(t *testing.T) {
	buf := make([]byte, 4)
	WriteFrame(buf, 0, FormatU16, 0, 0)
	u := binary.LittleEndian.Uint16(buf[0:2])
	assert.EqualValues(t, 32768, u)
}

func TestWriteFrameAtNonZeroOffset(t *testing.T) {
	buf := make([]byte, 16)
	WriteFrame(buf, 8, FormatI16, 1, 1)
	l := int16(binary.LittleEndian.Uint16(buf[8:10]))
	assert.Equal(t, int16(32767), l)
}
