package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/babirusa/teacher-console/internal/models"
)

// Credentials carries a login form. Both fields are required before any
// request leaves the process.
type Credentials struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

// Login exchanges teacher credentials for a bearer token. The authority
// takes the OAuth2 password form: urlencoded username and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*models.Token, error) {
	if err := c.validate(creds); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("username", creds.Login)
	form.Set("password", creds.Password)

	var token models.Token
	err := c.do(ctx, call{
		op:          "login",
		method:      http.MethodPost,
		path:        "/api/teacher/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		auth:        authNone,
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
