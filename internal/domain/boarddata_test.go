package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBoardData_DefaultsMissingFields(t *testing.T) {
	d := DecodeBoardData([]byte(`{"title":"Wedding","client":"Ana"}`))

	assert.Equal(t, "Wedding", d.Title)
	assert.Equal(t, "Ana", d.Client)
	assert.Equal(t, PriorityMedium, d.Priority)
	assert.Equal(t, StageShot, d.Status)
	assert.NotNil(t, d.Links)
	assert.Empty(t, d.Links)
}

func TestDecodeBoardData_MigratesLegacyEnums(t *testing.T) {
	d := DecodeBoardData([]byte(`{"title":"Ad","priority":"alta","status":"revisao"}`))

	assert.Equal(t, PriorityHigh, d.Priority)
	assert.Equal(t, StageReview, d.Status)
}

func TestDecodeBoardData_UnknownValuesFallBack(t *testing.T) {
	d := DecodeBoardData([]byte(`{"priority":"urgent","status":"paused","links":"not-a-list"}`))

	assert.Equal(t, PriorityMedium, d.Priority)
	assert.Equal(t, StageShot, d.Status)
	assert.Empty(t, d.Links)
}

func TestDecodeBoardData_MalformedJSON(t *testing.T) {
	d := DecodeBoardData([]byte(`{oops`))

	assert.Equal(t, "", d.Title)
	assert.Equal(t, StageShot, d.Status)
	assert.Equal(t, PriorityMedium, d.Priority)
}

func TestDecodeBoardData_WrongFieldTypeOnlyDefaultsThatField(t *testing.T) {
	d := DecodeBoardData([]byte(`{"title":42,"client":"Ana","status":"editing"}`))

	assert.Equal(t, "", d.Title)
	assert.Equal(t, "Ana", d.Client)
	assert.Equal(t, StageEditing, d.Status)
}

func TestEncodeBoardData_RoundTrip(t *testing.T) {
	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	p := &Project{
		Title:       "Launch video",
		Client:      "Acme",
		DueDate:     &due,
		Priority:    PriorityLow,
		Status:      StageEditing,
		Description: "two cuts",
		Links:       []string{"https://drive.example/raw"},
		AuthorID:    "u-1",
	}

	raw, err := EncodeBoardData(p)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, float64(BoardDataVersion), generic["v"])
	assert.Equal(t, "2025-03-14", generic["due_date"])

	var back Project
	DecodeBoardData(raw).Apply(&back)
	assert.Equal(t, p.Title, back.Title)
	assert.Equal(t, p.Client, back.Client)
	assert.Equal(t, p.Priority, back.Priority)
	assert.Equal(t, p.Status, back.Status)
	assert.Equal(t, p.Description, back.Description)
	assert.Equal(t, p.Links, back.Links)
	assert.Equal(t, p.AuthorID, back.AuthorID)
	require.NotNil(t, back.DueDate)
	assert.True(t, due.Equal(*back.DueDate))
}

func TestEncodeBoardData_NilLinksWrittenAsEmptyList(t *testing.T) {
	raw, err := EncodeBoardData(&Project{Title: "x", Client: "y"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"links":[]`)
}

func TestApply_DropsUnparseableDueDate(t *testing.T) {
	var p Project
	DecodeBoardData([]byte(`{"due_date":"next friday"}`)).Apply(&p)
	assert.Nil(t, p.DueDate)
}
