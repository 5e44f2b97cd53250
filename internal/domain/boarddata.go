package domain

import "encoding/json"

// BoardDataVersion is the payload version written by EncodeBoardData.
// Version 0 payloads predate the field and may carry legacy enum names.
const BoardDataVersion = 1

// BoardData is the JSON payload stored in a board record. It is the only
// place project fields are persisted.
type BoardData struct {
	Version     int      `json:"v"`
	Title       string   `json:"title"`
	Client      string   `json:"client"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    Priority `json:"priority"`
	Status      Stage    `json:"status"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
	UserID      string   `json:"user_id,omitempty"`
}

// EncodeBoardData serializes the project fields into a board payload.
func EncodeBoardData(p *Project) ([]byte, error) {
	links := p.Links
	if links == nil {
		links = []string{}
	}
	return json.Marshal(BoardData{
		Version:     BoardDataVersion,
		Title:       p.Title,
		Client:      p.Client,
		DueDate:     p.DueDateString(),
		Priority:    p.Priority,
		Status:      p.Status,
		Description: p.Description,
		Links:       links,
		UserID:      p.AuthorID,
	})
}

// DecodeBoardData reads a board payload and applies every default in one
// place: missing or unknown priority becomes medium, missing or unknown
// status becomes the first stage, and links that are not a string list
// become empty. Malformed JSON yields an all-default payload; it is never
// an error.
func DecodeBoardData(raw []byte) BoardData {
	d := BoardData{
		Version:  BoardDataVersion,
		Priority: PriorityMedium,
		Status:   Stages[0],
		Links:    []string{},
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return d
	}

	d.Title = stringField(fields, "title")
	d.Client = stringField(fields, "client")
	d.DueDate = stringField(fields, "due_date")
	d.Description = stringField(fields, "description")
	d.UserID = stringField(fields, "user_id")

	if p, ok := ParsePriority(stringField(fields, "priority")); ok {
		d.Priority = p
	}
	if s, ok := ParseStage(stringField(fields, "status")); ok {
		d.Status = s
	}
	if rawLinks, ok := fields["links"]; ok {
		var links []string
		if err := json.Unmarshal(rawLinks, &links); err == nil && links != nil {
			d.Links = links
		}
	}
	return d
}

// Apply copies the payload fields onto p. An unparseable due date is
// dropped.
func (d BoardData) Apply(p *Project) {
	p.Title = d.Title
	p.Client = d.Client
	p.Priority = d.Priority
	p.Status = d.Status
	p.Description = d.Description
	p.Links = d.Links
	p.AuthorID = d.UserID
	p.DueDate = nil
	if due, err := ParseDueDate(d.DueDate); err == nil {
		p.DueDate = due
	}
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
