// Package importer loads a board and ledger export from JSON.
package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// ImportSchema is the top-level JSON structure of an import file.
type ImportSchema struct {
	Projects []ProjectImport `json:"projects"`
	Entries  []EntryImport   `json:"entries,omitempty"`
}

// ProjectImport is one kanban card. Status and priority accept the same
// legacy names as the board itself.
type ProjectImport struct {
	Title       string   `json:"title"`
	Client      string   `json:"client"`
	DueDate     *string  `json:"due_date,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Links       []string `json:"links,omitempty"`
}

// EntryImport is one income or expense.
type EntryImport struct {
	Kind          string          `json:"kind"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Counterparty  string          `json:"counterparty,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Date          string          `json:"date,omitempty"`
	Paid          bool            `json:"paid,omitempty"`
	Category      string          `json:"category,omitempty"`
	DueDate       *string         `json:"due_date,omitempty"`
	Remind        bool            `json:"remind,omitempty"`
}

// LoadImportSchema reads and parses an import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
