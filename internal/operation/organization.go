package operation

import (
	"context"
	"fmt"
)

// OrganizationInfo reads one organization by name, or lists every organization the
// token can see when the name is empty. Always read-only.
func (s Service) OrganizationInfo(ctx context.Context, name string) (*Report, error) {
	if name == "" {
		orgs, err := s.repo.ListOrganizations(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not list organizations: %w", err)
		}

		return &Report{
			Changed:       false,
			Message:       fmt.Sprintf("Retrieved %d organizations", len(orgs)),
			Organizations: orgs,
		}, nil
	}

	org, err := s.repo.GetOrganization(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not get organization %q: %w", name, err)
	}

	return &Report{
		Changed:      false,
		Message:      fmt.Sprintf("Retrieved organization %q", org.Name),
		Organization: org,
	}, nil
}
