package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoform/pkg/models"
)

func TestExtractionPromptCoversAllFields(t *testing.T) {
	prompt := extractionPrompt()

	for _, field := range models.Fields() {
		assert.Contains(t, prompt, "- "+field.Name+": ", "prompt missing field %s", field.Name)
	}

	// The four part headings appear in order.
	p1 := strings.Index(prompt, "PART 1: ATTORNEY/REPRESENTATIVE INFORMATION")
	p2 := strings.Index(prompt, "PART 2: ATTORNEY ELIGIBILITY")
	p3 := strings.Index(prompt, "PART 3: PASSPORT/BENEFICIARY INFORMATION")
	p4 := strings.Index(prompt, "PART 4: CLIENT INFORMATION")
	require.True(t, p1 >= 0 && p2 > p1 && p3 > p2 && p4 > p3, "part headings out of order")

	// Normalization rules carried from the form instructions.
	assert.Contains(t, prompt, "MM/DD/YYYY")
	assert.Contains(t, prompt, "M, F, or X")
	assert.Contains(t, prompt, "passport MRZ")
}

func TestTextExtractionPromptEmbedsDocumentText(t *testing.T) {
	prompt := textExtractionPrompt(map[string]string{
		KindPassport: "P<USAJONAS<<JOE<<<<",
		KindG28:      "Part 1. Information About Attorney",
	})

	assert.Contains(t, prompt, "--- PASSPORT DOCUMENT ---")
	assert.Contains(t, prompt, "--- G28 DOCUMENT ---")
	assert.Contains(t, prompt, "P<USAJONAS<<JOE<<<<")
	assert.Contains(t, prompt, "Return ONLY a valid JSON object")
}

func TestDecodeFormData(t *testing.T) {
	data, err := decodeFormData(`{"beneficiary_last_name":"Jonas","passport_number":"C03005988"}`)
	require.NoError(t, err)
	assert.Equal(t, "Jonas", data.BeneficiaryLastName)
	assert.Equal(t, "C03005988", data.PassportNumber)
}

func TestDecodeFormDataStripsCodeFences(t *testing.T) {
	cases := []string{
		"```json\n{\"beneficiary_sex\":\"M\"}\n```",
		"```\n{\"beneficiary_sex\":\"M\"}\n```",
		"  {\"beneficiary_sex\":\"M\"}  ",
	}
	for _, raw := range cases {
		data, err := decodeFormData(raw)
		require.NoError(t, err, "input: %q", raw)
		assert.Equal(t, "M", data.BeneficiarySex)
	}
}

func TestDecodeFormDataRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```json\n```"} {
		_, err := decodeFormData(raw)
		require.Error(t, err, "input: %q", raw)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	}
}

func TestResponseSchemaCoversAllFields(t *testing.T) {
	schema := responseSchema()
	require.NotNil(t, schema)
	assert.Len(t, schema.Properties, len(models.Fields()))

	for _, field := range models.Fields() {
		prop, ok := schema.Properties[field.Name]
		require.True(t, ok, "schema missing field %s", field.Name)
		assert.Equal(t, field.Description, prop.Description)
		require.NotNil(t, prop.Nullable)
		assert.True(t, *prop.Nullable, "field %s must be nullable", field.Name)
	}
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMIME("doc.bin", []byte("%PDF-1.7 rest")))
	assert.Equal(t, "image/png", DetectMIME("scan.bin", []byte("\x89PNG\r\n\x1a\nrest")))
	// Extension fallback when the sniffer is inconclusive.
	assert.Equal(t, "application/pdf", DetectMIME("doc.pdf", []byte("ambiguous plain text")))
	assert.Equal(t, "image/jpeg", DetectMIME("scan.JPG", []byte("ambiguous plain text")))
}

func TestValidateDocuments(t *testing.T) {
	pdf := Document{Kind: KindPassport, Name: "passport.pdf", MIME: "application/pdf", Data: []byte("%PDF-1.7")}

	require.NoError(t, validateDocuments("op", []Document{pdf}))

	err := validateDocuments("op", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDocuments)

	err = validateDocuments("op", []Document{{Kind: KindG28, Name: "g28.pdf", MIME: "application/pdf"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	big := pdf
	big.Data = make([]byte, MaxDocumentSizeBytes+1)
	err = validateDocuments("op", []Document{big})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	tiff := pdf
	tiff.MIME = "image/tiff"
	err = validateDocuments("op", []Document{tiff})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
