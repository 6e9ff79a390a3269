package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faxfhir/internal/domain"
)

func TestDecodeOutput_SinglePage(t *testing.T) {
	data := []byte(`{"responses":[{"fullTextAnnotation":{"text":"PATIENT NAME: Jane Roe\n"}}]}`)
	text, err := DecodeOutput(data)
	require.NoError(t, err)
	assert.Equal(t, "PATIENT NAME: Jane Roe\n", text)
}

func TestDecodeOutput_MultiPage(t *testing.T) {
	data := []byte(`{"responses":[
		{"fullTextAnnotation":{"text":"page one "}},
		{"fullTextAnnotation":{"text":"page two"}}
	]}`)
	text, err := DecodeOutput(data)
	require.NoError(t, err)
	assert.Equal(t, "page one page two", text)
}

func TestDecodeOutput_NoResponses(t *testing.T) {
	_, err := DecodeOutput([]byte(`{"responses":[]}`))
	assert.ErrorIs(t, err, domain.ErrOCROutputMissing)
}

func TestDecodeOutput_PageError(t *testing.T) {
	data := []byte(`{"responses":[{"error":{"message":"bad page"}}]}`)
	_, err := DecodeOutput(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad page")
}

func TestDecodeOutput_PageWithoutAnnotation(t *testing.T) {
	// Blank pages come back with no fullTextAnnotation at all.
	data := []byte(`{"responses":[{"fullTextAnnotation":{"text":"x"}},{}]}`)
	text, err := DecodeOutput(data)
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}

func TestDecodeOutput_Garbage(t *testing.T) {
	_, err := DecodeOutput([]byte("not json"))
	assert.Error(t, err)
}
