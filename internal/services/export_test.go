package services

import (
	"bytes"
	"testing"
	"time"

	"game_inventory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleInventory() *Inventory {
	released := time.Date(1997, 4, 2, 0, 0, 0, 0, time.UTC)
	completed := time.Date(2020, 11, 5, 0, 0, 0, 0, time.UTC)

	return &Inventory{
		Families: []models.ConsoleFamily{
			{ID: "fam-1", Name: "PlayStation", Developer: "Sony", Generation: "5th"},
		},
		Consoles: []models.Console{
			{ID: "con-1", ConsoleFamilyID: "fam-1", Model: "SCPH-1002", Region: "PAL", Color: "gray",
				CustomAttributes: datatypes.JSONMap{"Modded": true}},
		},
		Games: []models.Game{
			{
				ID:              "game-1",
				Title:           "Final Fantasy VII",
				AlternateTitles: datatypes.NewJSONSlice([]string{"FF7"}),
				ReleaseDate:     &released,
				ConsoleFamilyID: "fam-1",
				Developer:       "Square",
				Region:          "PAL",
				PhysicalDigital: models.MediaPhysical,
				CategoryIDs:     datatypes.NewJSONSlice([]string{"cat-1", "cat-2"}),
				CustomAttributes: datatypes.JSONMap{
					"Completed": true,
					"Rating":    9.5,
				},
			},
			{ID: "game-2", Title: "Vagrant Story", ConsoleFamilyID: "fam-1"},
		},
		Peripherals: []models.Peripheral{
			{ID: "per-1", Name: "DualShock", ConsoleFamilyID: "fam-1", Quantity: 2, Color: "gray"},
		},
		Categories: []models.Category{
			{ID: "cat-1", Name: "RPG", Type: models.CategoryGenre},
			{ID: "cat-2", Name: "Final Fantasy", Type: models.CategoryFranchise},
		},
		Attributes: []models.Attribute{
			{ID: "attr-1", Name: "Completed", Type: models.AttributeBoolean, IsGlobal: true},
			{ID: "attr-2", Name: "Condition", Type: models.AttributeSelect,
				Options: datatypes.NewJSONSlice([]string{"Mint", "Good"}), IsGlobal: true},
		},
		CompletionTypes: []models.CompletionType{
			{ID: "ct-1", Name: "Main Story"},
		},
		Backlogs: []models.Backlog{
			{ID: "bl-1", GameID: "game-1", CompletionDate: &completed, EndingType: "Good ending", CompletionTypeID: "ct-1"},
			{ID: "bl-2", GameID: "game-1", CompletionDate: nil, EndingType: "Forgotten"},
		},
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	original := sampleInventory()

	f, err := BuildWorkbook(original)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ReadWorkbook(&buf)
	require.NoError(t, err)

	// round trip reproduces per-entity counts
	assert.Len(t, got.Games, len(original.Games))
	assert.Len(t, got.Consoles, len(original.Consoles))
	assert.Len(t, got.Peripherals, len(original.Peripherals))
	assert.Len(t, got.Backlogs, len(original.Backlogs))
	assert.Len(t, got.Categories, len(original.Categories))
	assert.Len(t, got.Attributes, len(original.Attributes))
	assert.Len(t, got.Families, len(original.Families))
	assert.Len(t, got.CompletionTypes, len(original.CompletionTypes))
}

func TestWorkbookRoundTrip_FieldFidelity(t *testing.T) {
	f, err := BuildWorkbook(sampleInventory())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ReadWorkbook(&buf)
	require.NoError(t, err)

	require.Len(t, got.Games, 2)
	g := got.Games[0]
	assert.Equal(t, "Final Fantasy VII", g.Title)
	assert.Equal(t, []string{"FF7"}, []string(g.AlternateTitles))
	assert.Equal(t, []string{"cat-1", "cat-2"}, []string(g.CategoryIDs))
	assert.Equal(t, models.MediaPhysical, g.PhysicalDigital)
	require.NotNil(t, g.ReleaseDate)
	assert.Equal(t, "1997-04-02", g.ReleaseDate.Format("2006-01-02"))
	assert.Equal(t, true, g.CustomAttributes["Completed"])
	assert.Equal(t, 9.5, g.CustomAttributes["Rating"])

	// undated game stays undated
	assert.Nil(t, got.Games[1].ReleaseDate)

	require.Len(t, got.Backlogs, 2)
	require.NotNil(t, got.Backlogs[0].CompletionDate)
	assert.Nil(t, got.Backlogs[1].CompletionDate, "unknown completion date survives the round trip")

	require.Len(t, got.Attributes, 2)
	assert.True(t, got.Attributes[0].IsGlobal)
	assert.Equal(t, []string{"Mint", "Good"}, []string(got.Attributes[1].Options))

	require.Len(t, got.Peripherals, 1)
	assert.Equal(t, 2, got.Peripherals[0].Quantity)
}

func TestReadWorkbook_EmptyWorkbook(t *testing.T) {
	f, err := BuildWorkbook(&Inventory{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ReadWorkbook(&buf)
	require.NoError(t, err)

	assert.Empty(t, got.Games)
	assert.Empty(t, got.Backlogs)
}

func TestImportFromLocal_MissingFile(t *testing.T) {
	s := NewExportService(nil, nil)

	summary, err := s.ImportFromLocal("/nonexistent/inventory.xlsx")

	assert.NoError(t, err)
	assert.Nil(t, summary)
}
