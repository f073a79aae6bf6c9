package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Username", "Workspace"},
		Rows: []map[string]string{
			{"Name": "Bobby Tables", "Username": "bobby", "Workspace": "https://bobby.babirusa.space"},
			{"Name": "Ada Byron", "Username": "ada", "Workspace": "https://ada.babirusa.space"},
		},
	}
}

func TestCSV(t *testing.T) {
	blob, err := CSV(rosterDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(blob)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Username,Workspace", lines[0])
	assert.Equal(t, "Bobby Tables,bobby,https://bobby.babirusa.space", lines[1])
}

func TestCSVMissingCellsStayAligned(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Username"},
		Rows:    []map[string]string{{"Name": "Bobby Tables"}},
	}
	blob, err := CSV(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(blob)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Bobby Tables,", lines[1])
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := CSV(Dataset{})
	require.Error(t, err)
}

func TestPDF(t *testing.T) {
	blob, err := PDF(rosterDataset(), "Roster: 5A")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(blob), "%PDF"))
}

func TestPDFRequiresHeaders(t *testing.T) {
	_, err := PDF(Dataset{}, "")
	require.Error(t, err)
}

func TestCredentialCards(t *testing.T) {
	cards := []Credential{
		{FullName: "Bobby Tables", Username: "bobby", Password: "pw", WorkspaceURL: "https://bobby.babirusa.space"},
		{FullName: "Ada Byron", Username: "ada", Password: "pw2", WorkspaceURL: "https://ada.babirusa.space"},
		{FullName: "Carl Gauss", Username: "carl", Password: "pw3", WorkspaceURL: "https://carl.babirusa.space"},
		{FullName: "Emmy Noether", Username: "emmy", Password: "pw4", WorkspaceURL: "https://emmy.babirusa.space"},
	}

	blob, err := CredentialCards("Login cards: 5A", cards)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(blob), "%PDF"))
}

func TestCredentialCardsRequireContent(t *testing.T) {
	_, err := CredentialCards("empty", nil)
	require.Error(t, err)
}
