package dataaccess

import (
	"context"

	"tilescope/internal/domain"
)

// Viruses fetches a light index resource: a JSON array of {id, name}
func (c *Client) Viruses(ctx context.Context, path string) ([]domain.VirusEntry, error) {
	var entries []domain.VirusEntry
	if err := c.FetchInto(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SearchIndex fetches the full search index resource
func (c *Client) SearchIndex(ctx context.Context, path string) (*domain.SearchIndexFile, error) {
	var file domain.SearchIndexFile
	if err := c.FetchInto(ctx, path, &file); err != nil {
		return nil, err
	}
	return &file, nil
}
