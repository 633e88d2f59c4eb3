package formfill

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// mappingPrompt builds the selector-mapping prompt from the (truncated) page
// HTML and the non-empty form fields. The model must answer with a bare JSON
// array of {selector, value} objects.
func mappingPrompt(pageHTML string, fields map[string]string) string {
	var sb strings.Builder

	sb.WriteString("You are filling out a web form. Below is the HTML of the form page ")
	sb.WriteString("and the data to enter.\n\n")

	sb.WriteString("FORM PAGE HTML:\n")
	sb.WriteString(truncateHTML(pageHTML))
	sb.WriteString("\n\n")

	sb.WriteString("DATA TO ENTER (field name -> value):\n")
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %s\n", name, fields[name])
	}
	sb.WriteString("\n")

	sb.WriteString(`INSTRUCTIONS:
1. Match each data field to the form input it belongs in, using the input's
   id, name, label, or placeholder visible in the HTML.
2. For each match, produce one command with a CSS selector that uniquely
   identifies the input (prefer #id, fall back to [name="..."]).
3. Only target <input>, <textarea>, and <select> elements that exist in the
   HTML above. Skip data fields that have no matching input.
4. Do NOT produce commands for submit buttons or any element that would
   submit the form.

Return ONLY a valid JSON array of objects with "selector" and "value" keys,
no explanations or markdown:
[{"selector": "#field-id", "value": "text to enter"}]`)

	return sb.String()
}

// decodeCommands parses the mapper response into validated fill commands.
// Commands with an empty selector or value are dropped rather than failing
// the whole run.
func decodeCommands(response string) ([]FillCommand, error) {
	const op = "decodeCommands"

	cleaned := stripCodeFences(response)
	if cleaned == "" {
		return nil, NewFormFillError(op, ErrInvalidCommands, "empty response")
	}

	var raw []FillCommand
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, NewFormFillError(op, ErrInvalidCommands, fmt.Sprintf("parse error: %v", err))
	}

	commands := make([]FillCommand, 0, len(raw))
	for _, cmd := range raw {
		cmd.Selector = strings.TrimSpace(cmd.Selector)
		if cmd.Selector == "" || cmd.Value == "" {
			continue
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// stripCodeFences removes a surrounding markdown code fence, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
