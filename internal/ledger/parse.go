package ledger

import "strings"

// Input is the raw, positionally-mapped result of parsing free-text order
// input. Price and deadline stay as strings; Create validates them.
type Input struct {
	OrdererName string
	PriceRaw    string
	Details     string
	Work        string
	DeadlineRaw string
}

// ParseInput parses free-text order creation input. It accepts either a
// single line with 4-5 pipe-delimited fields (name|price|details|work[|deadline])
// or 4-5 newline-delimited lines in the same order. Any other shape returns
// nil, and the caller should surface the format-help message.
func ParseInput(text string) *Input {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var fields []string
	if strings.Contains(trimmed, "|") {
		if strings.Contains(trimmed, "\n") {
			return nil
		}
		fields = strings.Split(trimmed, "|")
	} else {
		fields = strings.Split(trimmed, "\n")
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if len(fields) < 4 || len(fields) > 5 {
		return nil
	}
	for _, f := range fields[:4] {
		if f == "" {
			return nil
		}
	}

	in := &Input{
		OrdererName: fields[0],
		PriceRaw:    fields[1],
		Details:     fields[2],
		Work:        fields[3],
	}
	if len(fields) == 5 {
		in.DeadlineRaw = fields[4]
	}
	return in
}
