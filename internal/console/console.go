// Package console is the application shell: it owns the membership client,
// the session, the notification feed and the list views, and enforces the
// one consistency rule the tool has: no optimistic updates, every mutation
// is followed by an authoritative re-read.
package console

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/babirusa/teacher-console/internal/client"
	"github.com/babirusa/teacher-console/internal/models"
	"github.com/babirusa/teacher-console/internal/notify"
	"github.com/babirusa/teacher-console/internal/session"
	"github.com/babirusa/teacher-console/internal/view"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
	"github.com/babirusa/teacher-console/pkg/metrics"
	"github.com/babirusa/teacher-console/pkg/storage"
)

// Console coordinates the teacher's workflows.
type Console struct {
	client  *client.Client
	session *session.Store
	feed    *notify.Center
	logger  *zap.Logger
	exports *storage.LocalStorage

	pupils *view.List[models.Pupil]
	groups *view.List[models.Group]

	mu        sync.Mutex
	passwords map[string]string
}

// New wires the shell. The exports store and metrics recorder may be nil.
func New(c *client.Client, sess *session.Store, feed *notify.Center, exports *storage.LocalStorage, rec *metrics.Recorder, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	con := &Console{
		client:    c,
		session:   sess,
		feed:      feed,
		logger:    logger,
		exports:   exports,
		passwords: make(map[string]string),
	}
	con.pupils = view.NewList("pupils", c.ListPupils, rec)
	con.groups = view.NewList("groups", c.ListGroups, rec)
	return con
}

// Feed exposes the notification center.
func (c *Console) Feed() *notify.Center { return c.feed }

// Close tears the views down, cancelling any in-flight reads.
func (c *Console) Close() {
	c.pupils.Close()
	c.groups.Close()
}

// --- session ---

// Login exchanges credentials for a token and persists it.
func (c *Console) Login(ctx context.Context, login, password string) error {
	token, err := c.client.Login(ctx, client.Credentials{Login: login, Password: password})
	if err != nil {
		return c.report(err, "Could not log in")
	}
	if err := c.session.Save(token.AccessToken); err != nil {
		return c.report(err, "Could not store the session")
	}
	c.feed.Info("Logged in")
	return nil
}

// Logout forgets the stored session.
func (c *Console) Logout() error {
	if err := c.session.Clear(); err != nil {
		return c.report(err, "Could not clear the session")
	}
	c.feed.Info("Logged out")
	return nil
}

// WorkspaceURL resolves a pupil's workspace address.
func (c *Console) WorkspaceURL(username string) string {
	return c.session.WorkspaceURL(username)
}

// --- reads ---

// Pupils loads the pupil list from the authority.
func (c *Console) Pupils(ctx context.Context) ([]models.Pupil, error) {
	pupils, err := c.pupils.Load(ctx)
	if err != nil {
		return nil, c.report(err, "Could not load pupils")
	}
	return pupils, nil
}

// Groups loads the group list from the authority.
func (c *Console) Groups(ctx context.Context) ([]models.Group, error) {
	groups, err := c.groups.Load(ctx)
	if err != nil {
		return nil, c.report(err, "Could not load groups")
	}
	return groups, nil
}

// PupilsView exposes the pupil view's lifecycle for rendering.
func (c *Console) PupilsView() *view.List[models.Pupil] { return c.pupils }

// GroupsView exposes the group view's lifecycle for rendering.
func (c *Console) GroupsView() *view.List[models.Group] { return c.groups }

// --- mutations ---

// Enroll creates a pupil and places it in a group. On the known partial
// failure (account created, assignment refused) the orphaned pupil is
// reported so the teacher can assign it by hand.
func (c *Console) Enroll(ctx context.Context, req client.EnrollRequest) (*models.Pupil, error) {
	pupil, err := c.client.Enroll(ctx, req)

	var enrollErr *client.EnrollError
	switch {
	case err == nil:
		c.reload(ctx)
		c.feed.Info("Pupil " + pupil.Username + " created")
		return pupil, nil
	case errors.As(err, &enrollErr):
		c.reload(ctx)
		c.feed.Error("Pupil " + enrollErr.Pupil.Username + " was created but not added to the group")
		return pupil, &reportedError{err}
	case errors.Is(err, appErrors.ErrValidation):
		// Nothing was issued; no reload.
		return nil, c.report(err, "Fill in all pupil fields")
	default:
		c.reload(ctx)
		return nil, c.report(err, "Could not create the pupil")
	}
}

// DeletePupil removes a pupil account.
func (c *Console) DeletePupil(ctx context.Context, pupilID string) error {
	err := c.client.DeletePupil(ctx, pupilID)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not delete the pupil")
	}
	c.forgetPassword(pupilID)
	c.feed.Info("Pupil deleted")
	return nil
}

// CreateGroup registers a new, empty group.
func (c *Console) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	group, err := c.client.CreateGroup(ctx, name)
	if err != nil {
		return nil, c.report(err, "Could not create the group")
	}
	c.reload(ctx)
	c.feed.Info("Group " + group.Name + " created")
	return group, nil
}

// RenameGroup changes a group's name.
func (c *Console) RenameGroup(ctx context.Context, groupID, newName string) error {
	_, err := c.client.RenameGroup(ctx, groupID, newName)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not rename the group")
	}
	c.feed.Info("Group renamed")
	return nil
}

// DeleteGroups removes groups; member pupils keep their accounts.
func (c *Console) DeleteGroups(ctx context.Context, groupIDs ...string) error {
	err := c.client.DeleteGroups(ctx, groupIDs...)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not delete the group")
	}
	c.feed.Info("Group deleted")
	return nil
}

// AddToGroup attaches pupils to a group.
func (c *Console) AddToGroup(ctx context.Context, groupID string, pupilIDs []string) error {
	_, err := c.client.AddPupilsToGroup(ctx, groupID, pupilIDs)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not add pupils to the group")
	}
	c.feed.Info("Pupils added to the group")
	return nil
}

// RemoveFromGroup detaches pupils from a group.
func (c *Console) RemoveFromGroup(ctx context.Context, groupID string, pupilIDs []string) error {
	_, err := c.client.RemovePupilsFromGroup(ctx, groupID, pupilIDs)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not remove pupils from the group")
	}
	c.feed.Info("Pupils removed from the group")
	return nil
}

// Move places a pupil in the target group and detaches it everywhere else.
func (c *Console) Move(ctx context.Context, pupilID, targetGroupID string) error {
	err := c.client.Move(ctx, pupilID, targetGroupID)
	c.reload(ctx)
	if err != nil {
		return c.report(err, "Could not move the pupil")
	}
	c.feed.Info("Pupil moved")
	return nil
}

// --- admin ---

// Teachers lists every teacher account on the authority.
func (c *Console) Teachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := c.client.ListTeachers(ctx)
	if err != nil {
		return nil, c.report(err, "Could not load teachers")
	}
	return teachers, nil
}

// CreateTeacher provisions a teacher account.
func (c *Console) CreateTeacher(ctx context.Context, req client.CreateTeacherRequest) error {
	if _, err := c.client.CreateTeacher(ctx, req); err != nil {
		return c.report(err, "Could not create the teacher")
	}
	c.feed.Info("Teacher " + req.Login + " created")
	return nil
}

// DeleteTeacher removes a teacher account together with its pupils.
func (c *Console) DeleteTeacher(ctx context.Context, teacherID string) error {
	if err := c.client.DeleteTeacher(ctx, teacherID); err != nil {
		return c.report(err, "Could not delete the teacher")
	}
	c.feed.Info("Teacher deleted")
	return nil
}

// --- passwords ---

// RevealPassword returns the pupil's plaintext credential, fetching it at
// most once per reveal cycle: a second reveal without an intervening hide
// is served from memory.
func (c *Console) RevealPassword(ctx context.Context, pupilID string) (string, error) {
	c.mu.Lock()
	cached, ok := c.passwords[pupilID]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	password, err := c.client.PupilPassword(ctx, pupilID)
	if err != nil {
		return "", c.report(err, "Could not fetch the password")
	}

	c.mu.Lock()
	c.passwords[pupilID] = password
	c.mu.Unlock()
	return password, nil
}

// HidePassword drops the cached credential; the next reveal re-fetches.
func (c *Console) HidePassword(pupilID string) {
	c.forgetPassword(pupilID)
}

func (c *Console) forgetPassword(pupilID string) {
	c.mu.Lock()
	delete(c.passwords, pupilID)
	c.mu.Unlock()
}

// --- plumbing ---

// reload re-reads both views after a mutation, success or failure alike.
// Failures here surface through the views themselves.
func (c *Console) reload(ctx context.Context) {
	if _, err := c.pupils.Load(ctx); err != nil {
		c.logger.Warn("pupil reload failed", zap.Error(err))
	}
	if _, err := c.groups.Load(ctx); err != nil {
		c.logger.Warn("group reload failed", zap.Error(err))
	}
}

// reportedError marks a failure that already reached the feed, so callers
// rendering errors do not print it a second time.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// WasReported reports whether err was already published to the feed.
func WasReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// report routes an error: auth expiry goes back to the caller untouched so
// the CLI can send the teacher to login; everything else lands in the feed
// as a transient notification and comes back marked as reported.
func (c *Console) report(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErrors.IsUnauthorized(err) {
		return err
	}
	c.logger.Warn(message, zap.Error(err))
	c.feed.Error(message)
	return &reportedError{err}
}
