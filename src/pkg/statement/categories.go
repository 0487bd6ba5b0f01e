package statement

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

/*
Categories is the backend's category → amount object, kept in the order the
keys appear in the JSON document. Sorting that needs a stable tie-break
relies on this order.

A key repeated in the document keeps its first position and its last value.
*/
type Categories []CategoryAmount

// Get returns the amount for name and whether it is present.
func (c Categories) Get(name string) (decimal.Decimal, bool) {
	for _, entry := range c {
		if entry.Name == name {
			return entry.Amount, true
		}
	}
	return decimal.Zero, false
}

// Total sums every amount, zero and negative ones included.
func (c Categories) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c {
		total = total.Add(entry.Amount)
	}
	return total
}

// Positive returns a new slice with the entries whose amount is above zero.
func (c Categories) Positive() Categories {
	positive := make(Categories, 0, len(c))
	for _, entry := range c {
		if entry.Amount.Sign() > 0 {
			positive = append(positive, entry)
		}
	}
	return positive
}

func (c *Categories) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token == nil {
		*c = nil
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected a JSON object, got %v", token)
	}

	entries := make(Categories, 0)
	positions := make(map[string]int)
	for decoder.More() {
		keyToken, keyErr := decoder.Token()
		if keyErr != nil {
			return keyErr
		}
		name, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("categories: expected a key, got %v", keyToken)
		}

		var amount decimal.Decimal
		if decodeErr := decoder.Decode(&amount); decodeErr != nil {
			return fmt.Errorf("categories: amount for %q: %w", name, decodeErr)
		}

		if position, seen := positions[name]; seen {
			entries[position].Amount = amount
			continue
		}
		positions[name] = len(entries)
		entries = append(entries, CategoryAmount{Name: name, Amount: amount})
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}

	*c = entries
	return nil
}

func (c Categories) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, entry := range c {
		if index > 0 {
			buffer.WriteByte(',')
		}
		key, err := encodeKey(entry.Name)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.WriteString(entry.Amount.String())
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// encodeKey quotes name as a JSON string, leaving "&", "<" and ">" literal.
func encodeKey(name string) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(name); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}
