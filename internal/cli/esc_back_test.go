//go:build darwin || linux

package cli

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()

	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = reader.Close()
		_ = writer.Close()
	})

	return reader, writer
}

func TestEscBackReaderMapsLoneEscape(t *testing.T) {
	reader, writer := pipe(t)
	_, err := writer.Write([]byte{escapeByte})
	require.NoError(t, err)

	input := newEscBackReader(reader)
	buf := make([]byte, 1)

	n, err := input.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	assert.Equal(t, interruptByte, buf[0])
	assert.True(t, input.ConsumeBackPressed())
	assert.False(t, input.ConsumeBackPressed(), "marker is cleared once consumed")
}

func TestEscBackReaderKeepsArrowSequence(t *testing.T) {
	reader, writer := pipe(t)
	go func() {
		_, _ = writer.Write([]byte{escapeByte, '[', 'A'})
		_ = writer.Close()
	}()

	input := newEscBackReader(reader)
	collected, err := io.ReadAll(input)
	require.NoError(t, err)

	assert.Equal(t, []byte{escapeByte, '[', 'A'}, collected)
	assert.False(t, input.ConsumeBackPressed())
}

func TestEscBackReaderPassesPlainText(t *testing.T) {
	reader, writer := pipe(t)
	go func() {
		_, _ = writer.Write([]byte("web1\n"))
		_ = writer.Close()
	}()

	input := newEscBackReader(reader)
	collected, err := io.ReadAll(input)
	require.NoError(t, err)

	assert.Equal(t, "web1\n", string(collected))
	assert.False(t, input.ConsumeBackPressed())
}
