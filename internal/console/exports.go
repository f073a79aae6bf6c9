package console

import (
	"context"

	"github.com/babirusa/teacher-console/internal/models"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
	"github.com/babirusa/teacher-console/pkg/export"
	"github.com/babirusa/teacher-console/pkg/storage"
)

// ExportRoster writes the group's member list as CSV (format "csv") or a
// printable table (format "pdf") and returns the file path.
func (c *Console) ExportRoster(ctx context.Context, groupID, format string) (string, error) {
	if c.exports == nil {
		return "", c.report(appErrors.Clone(appErrors.ErrInternal, "exports not configured"), "Exports are not configured")
	}
	group, err := c.findGroup(ctx, groupID)
	if err != nil {
		return "", err
	}

	data := export.Dataset{Headers: []string{"Name", "Username", "Workspace"}}
	for _, pupil := range group.Pupils {
		data.Rows = append(data.Rows, map[string]string{
			"Name":      pupil.FullName(),
			"Username":  pupil.Username,
			"Workspace": c.WorkspaceURL(pupil.Username),
		})
	}

	var blob []byte
	switch format {
	case "pdf":
		blob, err = export.PDF(data, "Roster: "+group.Name)
	default:
		format = "csv"
		blob, err = export.CSV(data)
	}
	if err != nil {
		return "", c.report(err, "Could not render the roster")
	}

	path, err := c.exports.Save(storage.TimestampedName("roster-"+group.Name, format), blob)
	if err != nil {
		return "", c.report(err, "Could not write the roster file")
	}
	c.feed.Info("Roster exported")
	return path, nil
}

// ExportCredentials writes printable login cards for every pupil in the
// group. Passwords come from the authority's on-demand retrieval; the file
// lands in the exports directory and is the teacher's to protect.
func (c *Console) ExportCredentials(ctx context.Context, groupID string) (string, error) {
	if c.exports == nil {
		return "", c.report(appErrors.Clone(appErrors.ErrInternal, "exports not configured"), "Exports are not configured")
	}
	group, err := c.findGroup(ctx, groupID)
	if err != nil {
		return "", err
	}
	if len(group.Pupils) == 0 {
		return "", c.report(appErrors.Clone(appErrors.ErrValidation, "group has no pupils"), "Group has no pupils")
	}

	cards := make([]export.Credential, 0, len(group.Pupils))
	for _, pupil := range group.Pupils {
		password, err := c.RevealPassword(ctx, pupil.ID)
		if err != nil {
			return "", err
		}
		cards = append(cards, export.Credential{
			FullName:     pupil.FullName(),
			Username:     pupil.Username,
			Password:     password,
			WorkspaceURL: c.WorkspaceURL(pupil.Username),
		})
	}

	blob, err := export.CredentialCards("Login cards: "+group.Name, cards)
	if err != nil {
		return "", c.report(err, "Could not render the credential cards")
	}

	path, err := c.exports.Save(storage.TimestampedName("credentials-"+group.Name, "pdf"), blob)
	if err != nil {
		return "", c.report(err, "Could not write the credentials file")
	}
	c.feed.Info("Credential cards exported")
	return path, nil
}

// findGroup resolves a group by id or, as a convenience, by exact name.
func (c *Console) findGroup(ctx context.Context, groupID string) (*models.Group, error) {
	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == groupID || groups[i].Name == groupID {
			return &groups[i], nil
		}
	}
	return nil, c.report(appErrors.Clone(appErrors.ErrNotFound, "group not found"), "Group not found")
}
