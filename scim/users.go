package scim

import (
	"context"
	"net/http"
)

// UserSchema is the SCIM core user schema URN.
const UserSchema = "urn:scim:schemas:core:1.0"

// Name is a user's decomposed name.
type Name struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// Email is one of a user's email addresses.
type Email struct {
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// Photo is one of a user's profile photos.
type Photo struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// User is a SCIM user resource.
type User struct {
	Schemas     []string `json:"schemas,omitempty"`
	ID          string   `json:"id,omitempty"`
	ExternalID  string   `json:"externalId,omitempty"`
	UserName    string   `json:"userName,omitempty"`
	NickName    string   `json:"nickName,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
	Name        *Name    `json:"name,omitempty"`
	Emails      []Email  `json:"emails,omitempty"`
	Photos      []Photo  `json:"photos,omitempty"`
	Title       string   `json:"title,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Active      bool     `json:"active"`
}

// UserPatch is a partial user update. Pointer fields distinguish "unset"
// from "set to zero".
type UserPatch struct {
	Schemas  []string `json:"schemas,omitempty"`
	UserName *string  `json:"userName,omitempty"`
	NickName *string  `json:"nickName,omitempty"`
	Name     *Name    `json:"name,omitempty"`
	Emails   []Email  `json:"emails,omitempty"`
	Title    *string  `json:"title,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

// UserSearchResult is one page of a user search.
type UserSearchResult struct {
	TotalResults int    `json:"totalResults"`
	ItemsPerPage int    `json:"itemsPerPage"`
	StartIndex   int    `json:"startIndex"`
	Resources    []User `json:"Resources"`
}

// GetUser fetches one user by SCIM id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "Users/"+id, nil, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers returns one page of users matching the filter.
func (c *Client) SearchUsers(ctx context.Context, params SearchParams) (*UserSearchResult, error) {
	res := &UserSearchResult{}
	if err := c.do(ctx, http.MethodGet, "Users", params.query(), nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateUser provisions a new user.
func (c *Client) CreateUser(ctx context.Context, user *User) (*User, error) {
	if len(user.Schemas) == 0 {
		user.Schemas = []string{UserSchema}
	}
	created := &User{}
	if err := c.do(ctx, http.MethodPost, "Users", nil, user, created); err != nil {
		return nil, err
	}
	return created, nil
}

// PutUser replaces a user resource wholesale.
func (c *Client) PutUser(ctx context.Context, user *User) (*User, error) {
	updated := &User{}
	if err := c.do(ctx, http.MethodPut, "Users/"+user.ID, nil, user, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// PatchUser applies a partial update to a user.
func (c *Client) PatchUser(ctx context.Context, id string, patch *UserPatch) (*User, error) {
	if len(patch.Schemas) == 0 {
		patch.Schemas = []string{UserSchema}
	}
	updated := &User{}
	if err := c.do(ctx, http.MethodPatch, "Users/"+id, nil, patch, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser deactivates a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "Users/"+id, nil, nil, nil)
}
