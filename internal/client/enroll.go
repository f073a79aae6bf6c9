package client

import (
	"context"
	"fmt"

	"github.com/babirusa/teacher-console/internal/models"
)

// EnrollRequest creates a pupil and places it in a group in one intent.
type EnrollRequest struct {
	CreatePupilRequest
	GroupID string `validate:"required"`
}

// EnrollError reports the partial-failure state of an enrollment: the pupil
// was created but the group assignment did not go through. The account
// exists on the authority with no group membership until the teacher
// assigns it by hand.
type EnrollError struct {
	Pupil models.Pupil
	Err   error
}

func (e *EnrollError) Error() string {
	return fmt.Sprintf("pupil %q created but not assigned to a group: %v", e.Pupil.Username, e.Err)
}

func (e *EnrollError) Unwrap() error { return e.Err }

// Enroll provisions a pupil and assigns it to the chosen group. Creation is
// not considered complete until the assignment succeeds; when only the
// second step fails the returned error is an *EnrollError carrying the
// orphaned pupil. There is no compensation; the authority keeps the
// account either way.
func (c *Client) Enroll(ctx context.Context, req EnrollRequest) (*models.Pupil, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	pupil, err := c.CreatePupil(ctx, req.CreatePupilRequest)
	if err != nil {
		return nil, err
	}

	if _, err := c.AddPupilsToGroup(ctx, req.GroupID, []string{pupil.ID}); err != nil {
		return pupil, &EnrollError{Pupil: *pupil, Err: err}
	}
	return pupil, nil
}

// Move places the pupil in the target group and in no other. Membership is
// exclusive by policy: the pupil is first detached from every current
// group, then attached to the target. The authority enforces the same
// exclusivity on attach, so a crash between the two steps cannot leave a
// double membership. At worst the pupil is briefly group-less, the same
// orphan state an enrollment can produce.
func (c *Client) Move(ctx context.Context, pupilID, targetGroupID string) error {
	if pupilID == "" || targetGroupID == "" {
		return c.validate(struct {
			PupilID string `validate:"required"`
			GroupID string `validate:"required"`
		}{pupilID, targetGroupID})
	}

	groups, err := c.ListGroups(ctx)
	if err != nil {
		return err
	}
	for _, group := range groups {
		if group.ID == targetGroupID || !group.Contains(pupilID) {
			continue
		}
		if _, err := c.RemovePupilsFromGroup(ctx, group.ID, []string{pupilID}); err != nil {
			return err
		}
	}

	_, err = c.AddPupilsToGroup(ctx, targetGroupID, []string{pupilID})
	return err
}
