package ledserial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPacketRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	pix := []uint8{255, 0, 0, 0, 255, 0}
	require.NoError(t, WriteIncomingPacket(&buf, SetPacket{Pix: pix}))

	p, err := ReadIncomingPacket(&buf, ReadContext{NumLEDs: 2})
	require.NoError(t, err)
	assert.Equal(t, SetPacket{Pix: pix}, p)
	assert.Zero(t, buf.Len(), "trailer should be fully consumed")
}

func TestInitializePacketLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, InitializePacket{NumLEDs: 0x0102}))

	// type byte, uint16 LE, crc32
	b := buf.Bytes()
	require.Len(t, b, 1+2+4)
	assert.Equal(t, byte(TypeInitializePacket), b[0])
	assert.Equal(t, []byte{0x02, 0x01}, b[1:3])
}

func TestChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, ClearPacket{}))
	b := buf.Bytes()
	b[len(b)-1] ^= 0xFF

	_, err := ReadIncomingPacket(bytes.NewReader(b), ReadContext{})
	assert.EqualError(t, err, "packet checksum mismatch")
}

func TestOutgoingLogPacket(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutgoingPacket(&buf, LogPacket{Message: "strip ready"}))
	require.NoError(t, WriteOutgoingPacket(&buf, AckPacket{IncomingPacketType: TypeSetPacket}))

	p, err := ReadOutgoingPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, LogPacket{Message: "strip ready"}, p)

	p, err = ReadOutgoingPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, AckPacket{IncomingPacketType: TypeSetPacket}, p)
}

func TestUnknownPacketType(t *testing.T) {
	_, err := ReadOutgoingPacket(bytes.NewReader([]byte{0x7F}))
	assert.Error(t, err)
}
