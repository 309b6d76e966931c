package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	"pharmpal/internal/common"
)

const maxEchoedOutput = 500

// DecodeFieldMap parses the JSON object in a model reply. Markdown fences
// and prose around the object are ignored. Numbers are kept as json.Number.
func DecodeFieldMap(raw string) (map[string]any, error) {
	body := strings.TrimSpace(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return nil, malformed(raw)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body[start : end+1])))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, malformed(raw)
	}
	if dec.More() {
		return nil, malformed(raw)
	}
	return fields, nil
}

func malformed(raw string) error {
	return common.Validationf("language model returned malformed JSON: %s", EchoOutput(raw))
}

// EchoOutput shortens model output for inclusion in an error message.
func EchoOutput(raw string) string {
	if len(raw) > maxEchoedOutput {
		return raw[:maxEchoedOutput] + "..."
	}
	return raw
}

// EchoFields renders decoded fields the way EchoOutput renders raw text.
func EchoFields(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return EchoOutput(string(data))
}
