package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/babirusa/teacher-console/internal/models"
)

// CreateGroupRequest names a new group.
type CreateGroupRequest struct {
	GroupName string `json:"group_name" validate:"required"`
}

// RenameGroupRequest renames an existing group.
type RenameGroupRequest struct {
	GroupID      string `json:"group_id" validate:"required"`
	NewGroupName string `json:"new_group_name" validate:"required"`
}

// groupPupilsRequest attaches pupils to a group.
type groupPupilsRequest struct {
	GroupID  string   `json:"group_id" validate:"required"`
	PupilIDs []string `json:"pupil_id" validate:"required,min=1"`
}

// ListGroups fetches the teacher's groups with their nested pupil lists.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := c.do(ctx, call{
		op:     "list_groups",
		method: http.MethodGet,
		path:   "/api/teacher/groups",
		auth:   authBearer,
	}, &groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup registers an empty group under the authenticated teacher.
func (c *Client) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	req := CreateGroupRequest{GroupName: name}
	if err := c.validate(req); err != nil {
		return nil, err
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var group models.Group
	err = c.do(ctx, call{
		op:          "create_group",
		method:      http.MethodPost,
		path:        "/api/teacher/groups/new",
		body:        body,
		contentType: "application/json",
		auth:        authBearer,
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// RenameGroup changes a group's display name.
func (c *Client) RenameGroup(ctx context.Context, groupID, newName string) (*models.Group, error) {
	req := RenameGroupRequest{GroupID: groupID, NewGroupName: newName}
	if err := c.validate(req); err != nil {
		return nil, err
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var group models.Group
	err = c.do(ctx, call{
		op:          "rename_group",
		method:      http.MethodPatch,
		path:        "/api/teacher/groups",
		body:        body,
		contentType: "application/json",
		auth:        authBearer,
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroups removes groups by id. Pupils keep their accounts; only the
// membership references go away.
func (c *Client) DeleteGroups(ctx context.Context, groupIDs ...string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	query := url.Values{}
	for _, id := range groupIDs {
		query.Add("groups_id", id)
	}
	return c.do(ctx, call{
		op:     "delete_groups",
		method: http.MethodDelete,
		path:   "/api/teacher/groups",
		query:  query,
		auth:   authBearer,
	}, nil)
}

// AddPupilsToGroup attaches pupils to the group. The authority enforces
// exclusive membership: each pupil is detached from any other group as part
// of the same write, so re-running the call is harmless.
func (c *Client) AddPupilsToGroup(ctx context.Context, groupID string, pupilIDs []string) (*models.Group, error) {
	req := groupPupilsRequest{GroupID: groupID, PupilIDs: pupilIDs}
	if err := c.validate(req); err != nil {
		return nil, err
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var group models.Group
	err = c.do(ctx, call{
		op:          "add_pupils_to_group",
		method:      http.MethodPost,
		path:        "/api/teacher/groups/pupils",
		body:        body,
		contentType: "application/json",
		auth:        authBearer,
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// RemovePupilsFromGroup detaches pupils from the group.
func (c *Client) RemovePupilsFromGroup(ctx context.Context, groupID string, pupilIDs []string) (*models.Group, error) {
	if groupID == "" || len(pupilIDs) == 0 {
		return nil, c.validate(groupPupilsRequest{GroupID: groupID, PupilIDs: pupilIDs})
	}

	query := url.Values{}
	query.Set("group_id", groupID)
	for _, id := range pupilIDs {
		query.Add("pupil_id", id)
	}

	var group models.Group
	err := c.do(ctx, call{
		op:     "remove_pupils_from_group",
		method: http.MethodDelete,
		path:   "/api/teacher/groups/pupils",
		query:  query,
		auth:   authBearer,
	}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}
