package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babirusa/teacher-console/internal/models"
)

// CreatePupilRequest is the payload for provisioning a pupil account. Every
// field is required; an incomplete form never reaches the wire.
type CreatePupilRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// ListPupils fetches every pupil owned by the authenticated teacher.
func (c *Client) ListPupils(ctx context.Context) ([]models.Pupil, error) {
	var pupils []models.Pupil
	err := c.do(ctx, call{
		op:     "list_pupils",
		method: http.MethodGet,
		path:   "/api/teacher/pupils",
		auth:   authBearer,
	}, &pupils)
	if err != nil {
		return nil, err
	}
	return pupils, nil
}

// CreatePupil provisions a pupil account. The authority assigns the id and
// spins up the workspace.
func (c *Client) CreatePupil(ctx context.Context, req CreatePupilRequest) (*models.Pupil, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var pupil models.Pupil
	err = c.do(ctx, call{
		op:          "create_pupil",
		method:      http.MethodPost,
		path:        "/api/teacher/pupils/new",
		body:        body,
		contentType: "application/json",
		auth:        authBearer,
	}, &pupil)
	if err != nil {
		return nil, err
	}
	return &pupil, nil
}

// DeletePupil removes the pupil account and its workspace. The authority
// cascades the removal through every group membership; callers reload.
func (c *Client) DeletePupil(ctx context.Context, pupilID string) error {
	return c.do(ctx, call{
		op:     "delete_pupil",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/teacher/pupils/%s", pupilID),
		auth:   authBearer,
	}, nil)
}

// PupilPassword retrieves the pupil's plaintext credential on demand.
// Inherited authority contract; the value is never logged.
func (c *Client) PupilPassword(ctx context.Context, pupilID string) (string, error) {
	var out models.PupilPassword
	err := c.do(ctx, call{
		op:     "pupil_password",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/teacher/pupils/%s/password", pupilID),
		auth:   authBearer,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Password, nil
}
