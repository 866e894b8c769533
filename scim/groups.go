package scim

import (
	"context"
	"net/http"
)

// GroupMember references a user inside a group.
type GroupMember struct {
	Value   string `json:"value"`
	Display string `json:"display,omitempty"`
}

// Group is a SCIM group resource (an IDP group on the platform side).
type Group struct {
	Schemas     []string      `json:"schemas,omitempty"`
	ID          string        `json:"id,omitempty"`
	DisplayName string        `json:"displayName,omitempty"`
	Members     []GroupMember `json:"members,omitempty"`
}

// GroupSearchResult is one page of a group search.
type GroupSearchResult struct {
	TotalResults int     `json:"totalResults"`
	ItemsPerPage int     `json:"itemsPerPage"`
	StartIndex   int     `json:"startIndex"`
	Resources    []Group `json:"Resources"`
}

// GetGroup fetches one group by SCIM id.
func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	group := &Group{}
	if err := c.do(ctx, http.MethodGet, "Groups/"+id, nil, nil, group); err != nil {
		return nil, err
	}
	return group, nil
}

// SearchGroups returns one page of groups matching the filter.
func (c *Client) SearchGroups(ctx context.Context, params SearchParams) (*GroupSearchResult, error) {
	res := &GroupSearchResult{}
	if err := c.do(ctx, http.MethodGet, "Groups", params.query(), nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateGroup provisions a new group.
func (c *Client) CreateGroup(ctx context.Context, group *Group) (*Group, error) {
	if len(group.Schemas) == 0 {
		group.Schemas = []string{UserSchema}
	}
	created := &Group{}
	if err := c.do(ctx, http.MethodPost, "Groups", nil, group, created); err != nil {
		return nil, err
	}
	return created, nil
}

// PutGroup replaces a group resource wholesale.
func (c *Client) PutGroup(ctx context.Context, group *Group) (*Group, error) {
	updated := &Group{}
	if err := c.do(ctx, http.MethodPut, "Groups/"+group.ID, nil, group, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// PatchGroup applies a partial update, typically a membership change.
func (c *Client) PatchGroup(ctx context.Context, id string, patch *Group) (*Group, error) {
	updated := &Group{}
	if err := c.do(ctx, http.MethodPatch, "Groups/"+id, nil, patch, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "Groups/"+id, nil, nil, nil)
}
