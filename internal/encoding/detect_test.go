package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozank/kapici/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Turkish characters should pass through unchanged.
	input := "Açıklama;Tutar\nSüt ve ekmek;12,50\nÇöp ücreti;-3,00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1254(t *testing.T) {
	// Windows-1254 encoded "Açıklama;Tutar\n".
	// In Windows-1254: ç = 0xE7, ı = 0xFD
	turkishBytes := []byte{
		'A', 0xE7, 0xFD, 'k', 'l', 'a', 'm', 'a', ';',
		'T', 'u', 't', 'a', 'r', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(turkishBytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Açıklama;Tutar\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Açıklama;Tutar\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Açıklama;Tutar\n", string(got))
}
