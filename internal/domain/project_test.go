package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValidate_RequiresTitleAndClient(t *testing.T) {
	cases := []Project{
		{Title: "", Client: "Acme"},
		{Title: "Promo", Client: ""},
		{Title: "   ", Client: "Acme"},
	}
	for _, p := range cases {
		err := p.Validate()
		require.ErrorIs(t, err, ErrTitleAndClientRequired)
	}
}

func TestProjectValidate_RejectsUnknownStatus(t *testing.T) {
	p := &Project{Title: "Promo", Client: "Acme", Status: "archived"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestProjectValidate_Valid(t *testing.T) {
	p := &Project{Title: "Promo", Client: "Acme", Status: StageReview, Priority: PriorityHigh}
	assert.NoError(t, p.Validate())
}

func TestScopeValidate(t *testing.T) {
	assert.NoError(t, IndividualScope("u1").Validate())
	assert.NoError(t, AgencyScope("a1").Validate())
	assert.Error(t, Scope{}.Validate())
	assert.Error(t, Scope{UserID: "u1", AgencyID: "a1"}.Validate())
}

func TestParseStage_AcceptsLegacyNames(t *testing.T) {
	cases := map[string]Stage{
		"shot":     StageShot,
		"filmado":  StageShot,
		"EDICAO":   StageEditing,
		"revisao":  StageReview,
		"entregue": StageDelivered,
	}
	for in, want := range cases {
		got, ok := ParseStage(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseStage("done")
	assert.False(t, ok)
}

func TestWithStatus_DoesNotAliasLinks(t *testing.T) {
	p := &Project{Title: "Promo", Status: StageShot, Links: []string{"a"}}
	moved := p.WithStatus(StageEditing)
	moved.Links[0] = "b"

	assert.Equal(t, StageShot, p.Status)
	assert.Equal(t, "a", p.Links[0])
	assert.Equal(t, StageEditing, moved.Status)
}

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate("2020-01-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDueDate("01/02/2020")
	assert.Error(t, err)
}
