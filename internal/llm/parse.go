package llm

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// parseRecord turns the model's answer into an InvoiceRecord. Models
// sometimes wrap JSON in markdown fences or add prose around it, so the
// answer is cleaned before unmarshalling.
func parseRecord(answer string) (*model.InvoiceRecord, error) {
	cleaned := cleanJSON(answer)
	if cleaned == "" {
		return nil, eris.New("llm: empty answer")
	}

	var rec model.InvoiceRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, eris.Wrap(err, "llm: unmarshal answer")
	}
	return &rec, nil
}

// cleanJSON strips markdown code fences and any prose before the first
// brace or after the last one.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
