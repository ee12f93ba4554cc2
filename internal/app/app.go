// Package app owns the catalog, the comparison selection and the active filters of one session.
// Every handler reports a Notice for the user and the View to draw next.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/at-ishikawa/phonecompare/internal/catalog"
	"github.com/at-ishikawa/phonecompare/internal/filter"
	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/render"
	"github.com/at-ishikawa/phonecompare/internal/selection"
	"github.com/at-ishikawa/phonecompare/internal/storage"
)

// ErrEmptySelection is returned when comparing without any selected phone.
var ErrEmptySelection = errors.New("no phones selected")

type Level int

const (
	LevelNone Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return ""
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*l = LevelNone
	case "success":
		*l = LevelSuccess
	case "warning":
		*l = LevelWarning
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("unknown notice level %q", text)
	}
	return nil
}

// Notice is a short message for the user about the last action.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func (n Notice) IsZero() bool {
	return n.Level == LevelNone && n.Message == ""
}

// View is a snapshot of what the user sees. It shares nothing with the controller.
type View struct {
	Cards       []render.Card `json:"cards"`
	Stats       render.Stats  `json:"stats"`
	Query       filter.Query  `json:"query"`
	Brands      []string      `json:"brands"`
	Categories  []string      `json:"categories"`
	SelectedIDs []string      `json:"selected_ids"`
}

// Result pairs the notice of an action with the view after it.
type Result struct {
	Notice Notice
	View   View
}

// App is not safe for concurrent use.
type App struct {
	catalog   *catalog.Catalog
	selection selection.Set
	query     filter.Query
	now       func() time.Time
}

type Option func(*App)

// WithClock replaces the clock used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

func New(c *catalog.Catalog, opts ...Option) *App {
	a := &App{
		catalog: c,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog exposes the underlying catalog for read-only queries.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *App) View() View {
	visible := filter.Apply(a.catalog.Phones(), a.query)
	return View{
		Cards: render.Cards(visible, &a.selection),
		Stats: render.Stats{
			Total:    a.catalog.Len(),
			Filtered: len(visible),
			Selected: a.selection.Len(),
		},
		Query:       a.query,
		Brands:      a.catalog.Brands(),
		Categories:  a.catalog.Categories(),
		SelectedIDs: a.selection.IDs(),
	}
}

func (a *App) SetSearch(term string) Result {
	a.query.Search = term
	return a.result(Notice{})
}

func (a *App) SetBrand(brand string) Result {
	a.query.Brand = brand
	return a.result(Notice{})
}

func (a *App) SetTier(tier filter.PriceTier) Result {
	a.query.Tier = tier
	return a.result(Notice{})
}

func (a *App) SetCategory(category string) Result {
	a.query.Category = category
	return a.result(Notice{})
}

// SetQuery replaces every filter at once.
func (a *App) SetQuery(q filter.Query) Result {
	a.query = q
	return a.result(Notice{})
}

func (a *App) ClearFilters() Result {
	a.query = filter.Query{}
	return a.result(success("All filters cleared"))
}

// Toggle adds the phone to the comparison or removes it.
func (a *App) Toggle(id string) (Result, error) {
	outcome, err := a.selection.Toggle(id, a.catalog.Find)
	if err != nil {
		if errors.Is(err, selection.ErrCapacityExceeded) {
			return a.result(failure(fmt.Sprintf("At most %d phones can be compared", selection.MaxSize))), err
		}
		return a.result(failure(fmt.Sprintf("Phone %s was not found", id))), err
	}

	record, _ := a.catalog.Find(id)
	if outcome == selection.Removed {
		return a.result(success(fmt.Sprintf("Removed %s from the comparison", record.Model))), nil
	}
	return a.result(success(fmt.Sprintf("Added %s to the comparison", record.Model))), nil
}

func (a *App) ClearSelection() Result {
	a.selection.Clear()
	return a.result(success("Comparison cleared"))
}

// Compare builds the comparison table of the selected phones in selection order.
func (a *App) Compare() (render.Table, Result, error) {
	if a.selection.Len() == 0 {
		return render.Table{}, a.result(failure("Select phones to compare first")), ErrEmptySelection
	}
	records := a.selection.Records(a.catalog.Find)
	return render.Compare(records), a.result(Notice{}), nil
}

// Detail returns the full view of one phone.
func (a *App) Detail(id string) (render.Detail, error) {
	record, ok := a.catalog.Find(id)
	if !ok {
		return render.Detail{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return render.NewDetail(record), nil
}

// Add creates a user phone from the form. A save failure keeps the phone for the session and
// turns the notice into a warning.
func (a *App) Add(ctx context.Context, form catalog.Form) (phone.Record, Result, error) {
	change, err := a.catalog.AddUserRecord(ctx, form)
	if err != nil {
		return phone.Record{}, a.result(failure(validationMessage(err))), err
	}
	if change.PersistErr != nil {
		return change.Record, a.result(warning(fmt.Sprintf("Added %s, but it could not be saved", change.Record.Model))), nil
	}
	return change.Record, a.result(success(fmt.Sprintf("Added %s", change.Record.Model))), nil
}

// Update merges the form over an existing phone. Edits to base phones are not saved and come
// back with a warning.
func (a *App) Update(ctx context.Context, id string, form catalog.Form) (phone.Record, Result, error) {
	change, err := a.catalog.UpdateRecord(ctx, id, form)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return phone.Record{}, a.result(failure(fmt.Sprintf("Phone %s was not found", id))), err
		}
		return phone.Record{}, a.result(failure(validationMessage(err))), err
	}
	if change.PersistErr != nil {
		return change.Record, a.result(warning(fmt.Sprintf("Updated %s, but it could not be saved", change.Record.Model))), nil
	}
	if change.SessionOnly {
		return change.Record, a.result(warning(fmt.Sprintf("Updated %s for this session only, base phones are not saved", change.Record.Model))), nil
	}
	return change.Record, a.result(success(fmt.Sprintf("Updated %s", change.Record.Model))), nil
}

// Import merges a snapshot into the catalog.
func (a *App) Import(ctx context.Context, snapshot storage.Snapshot) (catalog.ImportResult, Result) {
	imported := a.catalog.ImportSnapshot(ctx, snapshot)
	message := fmt.Sprintf("Imported %d phones", imported.PhonesNew)
	if imported.PhonesSkipped > 0 {
		message += fmt.Sprintf(", skipped %d already present", imported.PhonesSkipped)
	}
	if imported.PersistErr != nil {
		return imported, a.result(warning(message + ", but user phones could not be saved"))
	}
	return imported, a.result(success(message))
}

// ImportFile reads a JSON or YAML snapshot file and imports it.
func (a *App) ImportFile(ctx context.Context, path string) (catalog.ImportResult, Result, error) {
	snapshot, err := storage.ImportFromFile(path)
	if err != nil {
		if errors.Is(err, storage.ErrImportFormat) {
			return catalog.ImportResult{}, a.result(failure("The import file has an invalid format")), err
		}
		return catalog.ImportResult{}, a.result(failure("The import file could not be read")), err
	}
	imported, result := a.Import(ctx, snapshot)
	return imported, result, nil
}

// ImportDocument decodes an uploaded JSON or YAML snapshot and imports it.
func (a *App) ImportDocument(ctx context.Context, contents []byte, format storage.Format) (catalog.ImportResult, Result, error) {
	snapshot, err := storage.DecodeSnapshot(contents, format)
	if err != nil {
		return catalog.ImportResult{}, a.result(failure("The import file has an invalid format")), err
	}
	imported, result := a.Import(ctx, snapshot)
	return imported, result, nil
}

// Snapshot captures the catalog for export.
func (a *App) Snapshot() storage.Snapshot {
	return a.catalog.ExportSnapshot(a.now())
}

// Export writes a snapshot into dir and returns the file path.
func (a *App) Export(dir string, format storage.Format) (string, Result, error) {
	now := a.now()
	path, err := storage.ExportToFile(dir, a.catalog.ExportSnapshot(now), format, now)
	if err != nil {
		return "", a.result(failure("Export failed")), err
	}
	return path, a.result(success(fmt.Sprintf("Exported to %s", path))), nil
}

// ExportDocument encodes a snapshot without writing it and returns the file name it would get.
func (a *App) ExportDocument(format storage.Format) (string, []byte, Result, error) {
	now := a.now()
	contents, err := storage.EncodeSnapshot(a.catalog.ExportSnapshot(now), format)
	if err != nil {
		return "", nil, a.result(failure("Export failed")), fmt.Errorf("storage.EncodeSnapshot > %w", err)
	}
	name := storage.ExportFileName(format, now)
	return name, contents, a.result(success(fmt.Sprintf("Exported %s", name))), nil
}

func (a *App) result(notice Notice) Result {
	return Result{Notice: notice, View: a.View()}
}

func validationMessage(err error) string {
	var validationErr *catalog.ValidationError
	if !errors.As(err, &validationErr) {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErr.Fields))
	for _, f := range validationErr.Fields {
		messages = append(messages, f.Message)
	}
	return "Check the form: " + strings.Join(messages, ", ")
}

func success(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message}
}

func warning(message string) Notice {
	return Notice{Level: LevelWarning, Message: message}
}

func failure(message string) Notice {
	return Notice{Level: LevelError, Message: message}
}
