package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babirusa/teacher-console/internal/models"
)

// CreateTeacherRequest provisions a teacher account.
type CreateTeacherRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ListTeachers fetches every teacher account. Admin surface: authenticated
// by the panel password header, not by a bearer token.
func (c *Client) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := c.do(ctx, call{
		op:     "list_teachers",
		method: http.MethodGet,
		path:   "/api/teacher",
		auth:   authAdmin,
	}, &teachers)
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

// CreateTeacher registers a teacher account and returns its bootstrap
// token.
func (c *Client) CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*models.TeacherToken, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var token models.TeacherToken
	err = c.do(ctx, call{
		op:          "create_teacher",
		method:      http.MethodPost,
		path:        "/api/teacher/create",
		body:        body,
		contentType: "application/json",
		auth:        authNone,
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteTeacher removes a teacher account together with its pupils.
func (c *Client) DeleteTeacher(ctx context.Context, teacherID string) error {
	return c.do(ctx, call{
		op:     "delete_teacher",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/teacher/%s", teacherID),
		auth:   authAdmin,
	}, nil)
}
