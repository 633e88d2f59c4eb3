package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"autoform/pkg/models"
)

// partHeadings maps each form part to the heading used in the extraction prompt.
var partHeadings = map[models.Part]string{
	models.PartAttorney:    "PART 1: ATTORNEY/REPRESENTATIVE INFORMATION (from G-28 form)",
	models.PartEligibility: "PART 2: ATTORNEY ELIGIBILITY (from G-28 form)",
	models.PartBeneficiary: "PART 3: PASSPORT/BENEFICIARY INFORMATION (from passport document)",
	models.PartClient:      "PART 4: CLIENT INFORMATION (from G-28 form - this is about the CLIENT/APPLICANT, not the attorney)",
}

// extractionPrompt builds the comprehensive field extraction prompt from the
// field registry. The field names in the prompt are exactly the JSON names
// the decoder expects.
func extractionPrompt() string {
	var b strings.Builder

	b.WriteString("Extract ALL information from the provided documents (passport and/or G-28 form) to fill Form A-28: Legal Documentation.\n")

	order := []models.Part{
		models.PartAttorney,
		models.PartEligibility,
		models.PartBeneficiary,
		models.PartClient,
	}
	for _, part := range order {
		b.WriteString(fmt.Sprintf("\n**%s**\n", partHeadings[part]))
		if part == models.PartClient {
			b.WriteString("Look for \"Information About Client\" or \"Part 3\" or \"Part 4\" sections:\n")
		}
		for _, field := range models.Fields() {
			if field.Part != part {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", field.Name, field.Description))
		}
	}

	b.WriteString(`
**IMPORTANT INSTRUCTIONS:**
1. Convert ALL dates to MM/DD/YYYY format
2. For sex/gender, return only: M, F, or X
3. If a field is blank/empty in the document, return null (not "N/A")
4. Look at BOTH the passport MRZ and main fields
5. Distinguish between ATTORNEY information (Part 1-2) and CLIENT information (Part 3-4)
6. The client is the person being represented; the attorney is the legal representative
7. Return null for any fields not found

Return a JSON object with these exact field names.`)

	return b.String()
}

// textExtractionPrompt wraps the extraction prompt around OCR'd document text
// for the chat-completion backend.
func textExtractionPrompt(texts map[string]string) string {
	var b strings.Builder

	b.WriteString("The following text was extracted from scanned documents via OCR.\n")
	for kind, text := range texts {
		b.WriteString(fmt.Sprintf("\n--- %s DOCUMENT ---\n%s\n", strings.ToUpper(kind), text))
	}
	b.WriteString("\n")
	b.WriteString(extractionPrompt())
	b.WriteString("\n\nReturn ONLY a valid JSON object, no markdown, no explanation.")

	return b.String()
}

// decodeFormData parses a model response into the field mapping. Responses
// wrapped in markdown code fences are unwrapped first.
func decodeFormData(response string) (*models.FormA28Data, error) {
	const op = "decodeFormData"

	cleaned := stripCodeFences(response)
	if cleaned == "" {
		return nil, WrapExtractionError(op, ErrInvalidResponse, "empty response")
	}

	var data models.FormA28Data
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, WrapExtractionError(op, ErrInvalidResponse, err.Error())
	}
	return &data, nil
}

// stripCodeFences removes a surrounding ```json ... ``` or ``` ... ``` block.
func stripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
