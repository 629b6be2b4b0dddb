// Package menu implements the numbered interactive diary menu.
package menu

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/stats"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/ui"
	"go.uber.org/zap"
)

const bodyTerminator = "."

// Options tunes how the menu renders and where exports go.
type Options struct {
	Theme ui.Theme
	// Styled enables colored headers and diffs.
	Styled       bool
	ExportFormat export.Format
	ExportDir    string
	// Today returns the date used when the add prompt is left blank.
	Today  func() string
	Logger *zap.Logger
}

// App is one interactive session over a store.
type App struct {
	store storage.Storage
	in    Prompter
	out   io.Writer
	opts  Options
	log   *zap.Logger
}

type action struct {
	key   string
	label string
	run   func(*App) error
}

var actions = []action{
	{"1", "Add new entry", (*App).add},
	{"2", "Read entry by date", (*App).read},
	{"3", "Search entries by keyword", (*App).search},
	{"4", "List all entries", (*App).list},
	{"5", "Export (single/all)", (*App).export},
	{"6", "Edit an entry", (*App).edit},
	{"7", "Delete an entry", (*App).remove},
	{"8", "Mood tracker / stats", (*App).stats},
	{"9", "Quit", nil},
}

// New creates a menu session. Zero-valued options fall back to markdown
// exports into ./exports and the local calendar date.
func New(store storage.Storage, in Prompter, out io.Writer, opts Options) *App {
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.Markdown
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "./exports"
	}
	if opts.Today == nil {
		opts.Today = entry.Today
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{store: store, in: in, out: out, opts: opts, log: log}
}

// Run loops over the menu until Quit, an interrupt at the menu prompt, or
// end of input. Failed actions are reported and the loop continues.
func (a *App) Run() error {
	for {
		a.printMenu()
		choice, err := a.ask("Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrCanceled) {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "Goodbye!")
				return nil
			}
			return err
		}

		act, ok := lookup(choice)
		if !ok {
			fmt.Fprintln(a.out, "Invalid choice")
			continue
		}
		if act.run == nil {
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}

		a.log.Debug("menu action", zap.String("action", act.label))
		err = act.run(a)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		case errors.Is(err, ErrCanceled):
			fmt.Fprintln(a.out, "Canceled.")
		default:
			a.log.Debug("menu action failed", zap.String("action", act.label), zap.Error(err))
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func lookup(key string) (action, bool) {
	for _, act := range actions {
		if act.key == key {
			return act, true
		}
	}
	return action{}, false
}

func (a *App) printMenu() {
	header := "=== Terminal Diary ==="
	if a.opts.Styled {
		header = a.opts.Theme.HeaderStyle().Render(header)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, header)
	for _, act := range actions {
		fmt.Fprintf(a.out, "%s. %s\n", act.key, act.label)
	}
}

func (a *App) ask(prompt string) (string, error) {
	line, err := a.in.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askDate reads a date. Blank input yields def, or an error when def is "".
func (a *App) askDate(prompt, def string) (string, error) {
	in, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if in == "" && def != "" {
		return def, nil
	}
	return entry.ParseDate(in)
}

// askBody collects lines until one holding only the terminator.
func (a *App) askBody(header string) (string, error) {
	fmt.Fprintln(a.out, header)
	var lines []string
	for {
		line, err := a.in.ReadLine("")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == bodyTerminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (a *App) add() error {
	date, err := a.askDate("Date (YYYY-MM-DD) [default today]: ", a.opts.Today())
	if err != nil {
		return err
	}
	title, err := a.ask("Title: ")
	if err != nil {
		return err
	}
	body, err := a.askBody("Write your entry. End with a single line containing only '.'")
	if err != nil {
		return err
	}
	mood, err := a.ask("Mood (optional): ")
	if err != nil {
		return err
	}
	tags, err := a.ask("Tags (comma separated, optional): ")
	if err != nil {
		return err
	}

	saved, replaced, err := a.store.Add(entry.Entry{
		Date:  date,
		Title: title,
		Body:  body,
		Mood:  mood,
		Tags:  entry.ParseTags(tags),
	})
	if err != nil {
		return err
	}
	ui.FormatEntrySaved(a.out, saved, replaced)
	return nil
}

func (a *App) read() error {
	date, err := a.askDate("Enter date (YYYY-MM-DD): ", "")
	if err != nil {
		return err
	}
	e, err := a.store.Get(date)
	if err != nil {
		return err
	}
	ui.FormatEntryPlain(a.out, e)
	return nil
}

func (a *App) search() error {
	keyword, err := a.ask("Keyword to search: ")
	if err != nil {
		return err
	}
	results, err := a.store.Search(keyword)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No results found")
		return nil
	}
	for _, e := range results {
		ui.FormatEntryPlain(a.out, e)
	}
	return nil
}

func (a *App) list() error {
	entries, err := a.store.List(storage.ListOptions{})
	if err != nil {
		return err
	}
	ui.FormatEntryList(a.out, entries)
	return nil
}

func (a *App) export() error {
	choice, err := a.ask("Export single entry or all? (single/all): ")
	if err != nil {
		return err
	}
	choice = strings.ToLower(choice)
	if choice != "single" && choice != "all" {
		return fmt.Errorf("unknown export option %q", choice)
	}

	in, err := a.ask(fmt.Sprintf("Format (txt/md) [%s]: ", a.opts.ExportFormat))
	if err != nil {
		return err
	}
	format := a.opts.ExportFormat
	if in != "" {
		if format, err = export.ParseFormat(in); err != nil {
			return err
		}
	}

	if choice == "single" {
		return a.exportSingle(format)
	}
	return a.exportAll(format)
}

func (a *App) exportSingle(format export.Format) error {
	date, err := a.askDate("Entry date (YYYY-MM-DD): ", "")
	if err != nil {
		return err
	}
	e, err := a.store.Get(date)
	if err != nil {
		return err
	}
	def := filepath.Join(a.opts.ExportDir, export.FileName(e))
	path, err := a.ask(fmt.Sprintf("Export path (without extension) [%s]: ", def))
	if err != nil {
		return err
	}
	if path == "" {
		path = def
	}
	written, err := export.EntryToFile(e, path, format)
	if err != nil {
		return err
	}
	a.log.Debug("exported entry", zap.String("date", e.Date), zap.String("path", written))
	fmt.Fprintf(a.out, "Exported to %s\n", written)
	return nil
}

func (a *App) exportAll(format export.Format) error {
	dir, err := a.ask(fmt.Sprintf("Target folder [%s]: ", a.opts.ExportDir))
	if err != nil {
		return err
	}
	if dir == "" {
		dir = a.opts.ExportDir
	}
	entries, err := a.store.ExportAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No diary entries found.")
		return nil
	}
	written, err := export.AllToFolder(entries, dir, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d entries to %s\n", len(written), dir)
	return nil
}

// clearValue, typed at a field prompt during edit, empties that field.
const clearValue = "-"

func (a *App) edit() error {
	date, err := a.askDate("Enter date of entry to edit (YYYY-MM-DD): ", "")
	if err != nil {
		return err
	}
	cur, err := a.store.Get(date)
	if err != nil {
		return err
	}
	ui.FormatEntryPlain(a.out, cur)
	fmt.Fprintf(a.out, "Leave blank to keep the current value, %q clears it.\n", clearValue)

	var p entry.Patch
	field := func(label, current string) (*string, error) {
		in, err := a.ask(fmt.Sprintf("%s [%s]: ", label, current))
		if err != nil || in == "" {
			return nil, err
		}
		if in == clearValue {
			in = ""
		}
		return &in, nil
	}

	if p.Title, err = field("Title", cur.Title); err != nil {
		return err
	}
	body, err := a.askBody("Enter new body. End with a single line containing only '.' (blank keeps current)")
	if err != nil {
		return err
	}
	switch body {
	case "":
	case clearValue:
		body = ""
		p.Body = &body
	default:
		p.Body = &body
	}
	if p.Mood, err = field("Mood", cur.Mood); err != nil {
		return err
	}
	tags, err := field("Tags", strings.Join(cur.Tags, ", "))
	if err != nil {
		return err
	}
	if tags != nil {
		p = p.WithTags(entry.ParseTags(*tags))
	}

	updated := cur.Apply(p)
	if p.Empty() || !entry.Changed(cur, updated) {
		ui.FormatNoChanges(a.out, cur.Date)
		return nil
	}
	if diff := ui.FormatBodyDiff(cur.Body, updated.Body, a.opts.Styled, a.opts.Theme); diff != "" {
		fmt.Fprintln(a.out, "Body changes:")
		fmt.Fprint(a.out, diff)
	}

	saved, err := a.store.Edit(cur.Date, p)
	if err != nil {
		return err
	}
	ui.FormatEntryUpdated(a.out, saved)
	return nil
}

func (a *App) remove() error {
	date, err := a.askDate("Enter date of entry to delete (YYYY-MM-DD): ", "")
	if err != nil {
		return err
	}
	e, err := a.store.Get(date)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleting %s  %s\n", e.Date, e.DisplayTitle())
	confirm, err := a.ask("Are you sure? Type 'yes' to confirm: ")
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "yes" {
		fmt.Fprintln(a.out, "Canceled.")
		return nil
	}
	if err := a.store.Delete(e.Date); err != nil {
		return err
	}
	ui.FormatEntryDeleted(a.out, e.Date)
	return nil
}

func (a *App) stats() error {
	summary, err := stats.FromStore(a.store, a.opts.Today())
	if err != nil {
		return err
	}
	ui.FormatStats(a.out, summary)
	return nil
}
