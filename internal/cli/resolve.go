package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/google/uuid"
)

// loadScope resolves the --agency flag and loads that board.
func loadScope(ctx context.Context, app *App, agencyID string) (domain.Scope, []*domain.Project, error) {
	scope, err := app.Boards.ResolveScope(ctx, agencyID)
	if err != nil {
		return domain.Scope{}, nil, err
	}
	projects, err := app.Boards.Load(ctx, scope)
	if err != nil {
		return domain.Scope{}, nil, err
	}
	return scope, projects, nil
}

// findProject reads a full project ID directly. Anything shorter is
// treated as a prefix and matched against the scope's board.
func findProject(ctx context.Context, app *App, agencyID, input string) (*domain.Project, error) {
	id := strings.ToLower(strings.TrimSpace(input))
	if _, err := uuid.Parse(id); err == nil && len(id) == 36 {
		p, err := app.Boards.Get(ctx, id)
		if service.IsNotFound(err) {
			return nil, fmt.Errorf("project not found: %q", input)
		}
		return p, err
	}
	_, projects, err := loadScope(ctx, app, agencyID)
	if err != nil {
		return nil, err
	}
	return resolveProject(projects, input)
}

// resolveProject finds a project by full ID or unique ID prefix.
func resolveProject(projects []*domain.Project, input string) (*domain.Project, error) {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	id, err := matchID("project", ids, input)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project not found: %q", input)
}

// resolveEntry finds a financial entry by full ID or unique ID prefix.
func resolveEntry(entries []service.FinancialEntry, input string) (string, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Transaction.ID
	}
	return matchID("entry", ids, input)
}

func matchID(kind string, ids []string, input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
