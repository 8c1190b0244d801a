package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"game_inventory/internal/models"
	"game_inventory/internal/storage/mariadb"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

const (
	sheetGames           = "Games"
	sheetConsoles        = "Consoles"
	sheetFamilies        = "ConsoleFamilies"
	sheetPeripherals     = "Peripherals"
	sheetCategories      = "Categories"
	sheetAttributes      = "Attributes"
	sheetCompletionTypes = "CompletionTypes"
	sheetBacklogs        = "Backlogs"

	dateLayout = "2006-01-02"
)

// Inventory is a full snapshot of every collection, the unit of bulk
// export and import.
type Inventory struct {
	Families        []models.ConsoleFamily
	Consoles        []models.Console
	Games           []models.Game
	Peripherals     []models.Peripheral
	Categories      []models.Category
	Attributes      []models.Attribute
	CompletionTypes []models.CompletionType
	Backlogs        []models.Backlog
}

// ImportSummary reports how many records an import created per entity type.
type ImportSummary struct {
	Games       int `json:"games"`
	Consoles    int `json:"consoles"`
	Peripherals int `json:"peripherals"`
	Backlogs    int `json:"backlogs"`
	Categories  int `json:"categories"`
	Attributes  int `json:"attributes"`
}

type ExportService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewExportService(s *mariadb.Storage, log *slog.Logger) *ExportService {
	return &ExportService{
		storage: s,
		log:     log,
	}
}

// Snapshot loads the whole inventory from storage.
func (s *ExportService) Snapshot() (*Inventory, error) {
	const op = "services.export.Snapshot"

	var inv Inventory
	db := s.storage.DB

	if err := db.Find(&inv.Families).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Consoles).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Games).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Peripherals).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Categories).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Attributes).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.CompletionTypes).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Find(&inv.Backlogs).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inv, nil
}

// ExportWorkbook snapshots the inventory into an XLSX workbook.
func (s *ExportService) ExportWorkbook() (*excelize.File, error) {
	const op = "services.export.ExportWorkbook"

	inv, err := s.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := BuildWorkbook(inv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// Import reads a workbook and creates every record it contains, returning
// per-entity counts. Records are created in dependency order so imported
// references resolve.
func (s *ExportService) Import(r io.Reader) (*ImportSummary, error) {
	const op = "services.export.Import"

	inv, err := ReadWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx := s.storage.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var summary ImportSummary

	for i := range inv.Families {
		if err := tx.Create(&inv.Families[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	for i := range inv.CompletionTypes {
		if err := tx.Create(&inv.CompletionTypes[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	for i := range inv.Categories {
		if err := tx.Create(&inv.Categories[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Categories++
	}
	for i := range inv.Attributes {
		if err := tx.Create(&inv.Attributes[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Attributes++
	}
	for i := range inv.Consoles {
		if err := tx.Create(&inv.Consoles[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Consoles++
	}
	for i := range inv.Games {
		if err := tx.Create(&inv.Games[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Games++
	}
	for i := range inv.Peripherals {
		if err := tx.Create(&inv.Peripherals[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Peripherals++
	}
	for i := range inv.Backlogs {
		if err := tx.Create(&inv.Backlogs[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.Backlogs++
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &summary, nil
}

// ImportFromLocal imports the workbook at path if it exists. A missing file
// is not an error; the startup import is opportunistic.
func (s *ExportService) ImportFromLocal(path string) (*ImportSummary, error) {
	const op = "services.export.ImportFromLocal"

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	return s.Import(f)
}

// BuildWorkbook serializes an inventory snapshot, one sheet per entity.
func BuildWorkbook(inv *Inventory) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, sheetFamilies,
		[]string{"id", "name", "developer", "generation", "createdAt"},
		len(inv.Families), func(i int) []any {
			fam := inv.Families[i]
			return []any{fam.ID, fam.Name, fam.Developer, fam.Generation, formatTime(fam.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetConsoles,
		[]string{"id", "consoleFamilyId", "model", "releaseDate", "region", "color", "picture", "customAttributes", "createdAt"},
		len(inv.Consoles), func(i int) []any {
			c := inv.Consoles[i]
			return []any{c.ID, c.ConsoleFamilyID, c.Model, formatDate(c.ReleaseDate), c.Region, c.Color, c.Picture, marshalJSON(c.CustomAttributes), formatTime(c.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetGames,
		[]string{"id", "title", "alternateTitles", "coverArt", "releaseDate", "consoleFamilyId", "consoleId", "developer", "region", "physicalDigital", "categoryIds", "customAttributes", "createdAt"},
		len(inv.Games), func(i int) []any {
			g := inv.Games[i]
			return []any{g.ID, g.Title, marshalJSON(g.AlternateTitles), g.CoverArt, formatDate(g.ReleaseDate), g.ConsoleFamilyID, g.ConsoleID, g.Developer, g.Region, string(g.PhysicalDigital), marshalJSON(g.CategoryIDs), marshalJSON(g.CustomAttributes), formatTime(g.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetPeripherals,
		[]string{"id", "name", "consoleFamilyId", "quantity", "color", "picture", "customAttributes", "createdAt"},
		len(inv.Peripherals), func(i int) []any {
			p := inv.Peripherals[i]
			return []any{p.ID, p.Name, p.ConsoleFamilyID, p.Quantity, p.Color, p.Picture, marshalJSON(p.CustomAttributes), formatTime(p.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetCategories,
		[]string{"id", "name", "type", "description", "createdAt"},
		len(inv.Categories), func(i int) []any {
			c := inv.Categories[i]
			return []any{c.ID, c.Name, string(c.Type), c.Description, formatTime(c.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetAttributes,
		[]string{"id", "name", "type", "options", "isGlobal", "createdAt"},
		len(inv.Attributes), func(i int) []any {
			a := inv.Attributes[i]
			return []any{a.ID, a.Name, string(a.Type), marshalJSON(a.Options), strconv.FormatBool(a.IsGlobal), formatTime(a.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetCompletionTypes,
		[]string{"id", "name", "createdAt"},
		len(inv.CompletionTypes), func(i int) []any {
			c := inv.CompletionTypes[i]
			return []any{c.ID, c.Name, formatTime(c.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, sheetBacklogs,
		[]string{"id", "gameId", "completionDate", "endingType", "completionTypeId", "customAttributes", "createdAt"},
		len(inv.Backlogs), func(i int) []any {
			b := inv.Backlogs[i]
			return []any{b.ID, b.GameID, formatDate(b.CompletionDate), b.EndingType, b.CompletionTypeID, marshalJSON(b.CustomAttributes), formatTime(b.CreatedAt)}
		}); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f, nil
}

// ReadWorkbook parses an exported workbook back into an inventory snapshot.
// Missing sheets read as empty collections.
func ReadWorkbook(r io.Reader) (*Inventory, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var inv Inventory

	for _, row := range readSheet(f, sheetFamilies) {
		inv.Families = append(inv.Families, models.ConsoleFamily{
			ID:         cell(row, 0),
			Name:       cell(row, 1),
			Developer:  cell(row, 2),
			Generation: cell(row, 3),
			CreatedAt:  parseTime(cell(row, 4)),
		})
	}

	for _, row := range readSheet(f, sheetConsoles) {
		inv.Consoles = append(inv.Consoles, models.Console{
			ID:               cell(row, 0),
			ConsoleFamilyID:  cell(row, 1),
			Model:            cell(row, 2),
			ReleaseDate:      parseDate(cell(row, 3)),
			Region:           cell(row, 4),
			Color:            cell(row, 5),
			Picture:          cell(row, 6),
			CustomAttributes: unmarshalMap(cell(row, 7)),
			CreatedAt:        parseTime(cell(row, 8)),
		})
	}

	for _, row := range readSheet(f, sheetGames) {
		inv.Games = append(inv.Games, models.Game{
			ID:               cell(row, 0),
			Title:            cell(row, 1),
			AlternateTitles:  unmarshalStrings(cell(row, 2)),
			CoverArt:         cell(row, 3),
			ReleaseDate:      parseDate(cell(row, 4)),
			ConsoleFamilyID:  cell(row, 5),
			ConsoleID:        cell(row, 6),
			Developer:        cell(row, 7),
			Region:           cell(row, 8),
			PhysicalDigital:  models.MediaFormat(cell(row, 9)),
			CategoryIDs:      unmarshalStrings(cell(row, 10)),
			CustomAttributes: unmarshalMap(cell(row, 11)),
			CreatedAt:        parseTime(cell(row, 12)),
		})
	}

	for _, row := range readSheet(f, sheetPeripherals) {
		quantity, _ := strconv.Atoi(cell(row, 3))
		inv.Peripherals = append(inv.Peripherals, models.Peripheral{
			ID:               cell(row, 0),
			Name:             cell(row, 1),
			ConsoleFamilyID:  cell(row, 2),
			Quantity:         quantity,
			Color:            cell(row, 4),
			Picture:          cell(row, 5),
			CustomAttributes: unmarshalMap(cell(row, 6)),
			CreatedAt:        parseTime(cell(row, 7)),
		})
	}

	for _, row := range readSheet(f, sheetCategories) {
		inv.Categories = append(inv.Categories, models.Category{
			ID:          cell(row, 0),
			Name:        cell(row, 1),
			Type:        models.CategoryType(cell(row, 2)),
			Description: cell(row, 3),
			CreatedAt:   parseTime(cell(row, 4)),
		})
	}

	for _, row := range readSheet(f, sheetAttributes) {
		isGlobal, _ := strconv.ParseBool(cell(row, 4))
		inv.Attributes = append(inv.Attributes, models.Attribute{
			ID:        cell(row, 0),
			Name:      cell(row, 1),
			Type:      models.AttributeType(cell(row, 2)),
			Options:   unmarshalStrings(cell(row, 3)),
			IsGlobal:  isGlobal,
			CreatedAt: parseTime(cell(row, 5)),
		})
	}

	for _, row := range readSheet(f, sheetCompletionTypes) {
		inv.CompletionTypes = append(inv.CompletionTypes, models.CompletionType{
			ID:        cell(row, 0),
			Name:      cell(row, 1),
			CreatedAt: parseTime(cell(row, 2)),
		})
	}

	for _, row := range readSheet(f, sheetBacklogs) {
		inv.Backlogs = append(inv.Backlogs, models.Backlog{
			ID:               cell(row, 0),
			GameID:           cell(row, 1),
			CompletionDate:   parseDate(cell(row, 2)),
			EndingType:       cell(row, 3),
			CompletionTypeID: cell(row, 4),
			CustomAttributes: unmarshalMap(cell(row, 5)),
			CreatedAt:        parseTime(cell(row, 6)),
		})
	}

	return &inv, nil
}

func writeSheet(f *excelize.File, name string, header []string, n int, row func(i int) []any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		values := row(i)
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	return nil
}

func readSheet(f *excelize.File, name string) [][]string {
	rows, err := f.GetRows(name)
	if err != nil || len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalMap(s string) datatypes.JSONMap {
	if s == "" || s == "null" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

func unmarshalStrings(s string) datatypes.JSONSlice[string] {
	if s == "" || s == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil
	}
	return datatypes.NewJSONSlice(list)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
