package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"rhystmorgan/contactbook/internal/audit"
	"rhystmorgan/contactbook/internal/config"
	"rhystmorgan/contactbook/internal/contacts"
	"rhystmorgan/contactbook/internal/logging"
	"rhystmorgan/contactbook/internal/models"
	"rhystmorgan/contactbook/internal/storage"
	"rhystmorgan/contactbook/internal/transfer"
	"rhystmorgan/contactbook/internal/views"
)

var (
	version = "dev"
	commit  = "unknown"
)

var errNoTerminal = errors.New("the interactive book needs a terminal; use `cbook list` instead")

// Globals are the flags and streams shared by every command.
type Globals struct {
	Config string `help:"Config file layered over ~/.cbook/config.yaml and ./cbook.yaml." short:"c" type:"path"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
	stderr io.Writer `kong:"-"`
}

// CLI is the top-level command structure for cbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`

	TUI    TUICmd    `cmd:"" default:"1" help:"Open the interactive contact book."`
	List   ListCmd   `cmd:"" help:"Print every contact."`
	Add    AddCmd    `cmd:"" help:"Add a contact."`
	Edit   EditCmd   `cmd:"" help:"Change a contact's fields."`
	Delete DeleteCmd `cmd:"" help:"Delete a contact."`
	Export ExportCmd `cmd:"" help:"Write every contact to a JSON or CSV file."`
	Import ImportCmd `cmd:"" help:"Add contacts from a JSON or CSV file."`
}

type TUICmd struct{}

type ListCmd struct {
	Plain bool `help:"Force plain text output even if stdout is a TTY."`
}

type AddCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `help:"Phone number." short:"p"`
	Email string `help:"Email address." short:"e"`
}

type EditCmd struct {
	ID    int64   `arg:"" help:"Contact id, as shown by list."`
	Name  *string `help:"New name." short:"n"`
	Phone *string `help:"New phone number." short:"p"`
	Email *string `help:"New email address." short:"e"`
}

type DeleteCmd struct {
	ID  int64 `arg:"" help:"Contact id, as shown by list."`
	Yes bool  `help:"Skip the confirmation prompt." short:"y"`
}

type ExportCmd struct {
	Output string `help:"Destination file; stdout when empty." short:"o" type:"path"`
	Format string `help:"json or csv; guessed from --output when empty." short:"f"`
}

type ImportCmd struct {
	File           string `arg:"" help:"File to read." type:"existingfile"`
	Format         string `help:"json or csv; guessed from the file name when empty." short:"f"`
	SkipDuplicates bool   `help:"Skip records identical to an existing contact."`
}

// session holds everything a command needs once config is loaded.
type session struct {
	logger  *zap.Logger
	storage *storage.Storage
	auditor *audit.ContactAuditor
}

func (g *Globals) open() (*session, error) {
	paths := config.DefaultPaths()
	if g.Config != "" {
		paths = append(paths, g.Config)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(cfg.Storage, config.Passphrase())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("session opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("dir", cfg.Storage.Dir),
		zap.String("key", st.Key()),
		zap.Bool("sealed", config.Passphrase() != ""))

	return &session{
		logger:  logger,
		storage: st,
		auditor: audit.NewContactAuditor(logger),
	}, nil
}

func (s *session) store(r contacts.Renderer) (*contacts.Store, error) {
	store, err := contacts.NewStore(s.storage, r, contacts.WithAuditor(s.auditor))
	if err != nil {
		s.logger.Error("load failed", zap.Error(err))
		return nil, err
	}
	return store, nil
}

func (s *session) Close() {
	if err := s.storage.Close(); err != nil {
		s.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *TUICmd) Run(g *Globals) error {
	if !isTerminal(g.stdin) || !isTerminal(g.stdout) {
		return errNoTerminal
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	list := views.NewListModel()
	store, err := s.store(list)
	if err != nil {
		return err
	}

	app := views.NewAppModel(store, list, s.logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run application: %w", err)
	}
	return nil
}

func (c *ListCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	styled := !c.Plain && isTerminal(g.stdout)
	store, err := s.store(views.NewTextRenderer(g.stdout, styled))
	if err != nil {
		return err
	}
	store.Render()
	return nil
}

func (c *AddCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := s.store(contacts.NopRenderer{})
	if err != nil {
		return err
	}
	contact, err := store.Create(c.Name, c.Phone, c.Email)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "Added #%d %s\n", contact.ID, contact.Name)
	return nil
}

func (c *EditCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := s.store(contacts.NopRenderer{})
	if err != nil {
		return err
	}

	current, ok := store.Find(c.ID)
	if !ok {
		return fmt.Errorf("no contact with id %d", c.ID)
	}
	next := models.NewContact(c.ID, current.Name, current.Phone, current.Email)
	if c.Name != nil {
		next.Name = *c.Name
	}
	if c.Phone != nil {
		next.Phone = *c.Phone
	}
	if c.Email != nil {
		next.Email = *c.Email
	}

	if _, err := store.Update(c.ID, next); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "Updated #%d %s\n", next.ID, next.Name)
	return nil
}

func (c *DeleteCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := s.store(contacts.NopRenderer{})
	if err != nil {
		return err
	}

	var confirmer contacts.Confirmer = views.NewPromptConfirmer(g.stdin, g.stderr)
	if c.Yes {
		confirmer = contacts.ConfirmFunc(func(string) bool { return true })
	}
	ctl := contacts.NewController(store, views.NewFormModel(), contacts.WithConfirmer(confirmer))

	before := store.Len()
	if err := ctl.Dispatch(contacts.DeleteContact{ID: c.ID}); err != nil {
		return err
	}
	if store.Len() < before {
		fmt.Fprintf(g.stdout, "Deleted #%d\n", c.ID)
	} else if _, still := store.Find(c.ID); still {
		fmt.Fprintln(g.stdout, "Kept.")
	} else {
		fmt.Fprintf(g.stdout, "No contact with id %d\n", c.ID)
	}
	return nil
}

func resolveFormat(flag, path string) (transfer.Format, error) {
	if flag != "" {
		return transfer.ParseFormat(flag)
	}
	return transfer.FormatFromPath(path), nil
}

func (c *ExportCmd) Run(g *Globals) error {
	format, err := resolveFormat(c.Format, c.Output)
	if err != nil {
		return err
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := s.store(contacts.NopRenderer{})
	if err != nil {
		return err
	}

	exporter := transfer.NewExporter(format)
	if c.Output == "" {
		if err := exporter.Export(g.stdout, store.Contacts()); err != nil {
			return err
		}
	} else if err := exportFile(c.Output, exporter, store.Contacts()); err != nil {
		return err
	}
	s.logger.Info("contacts exported", zap.Int("count", store.Len()), zap.String("format", string(format)))
	if c.Output != "" {
		fmt.Fprintf(g.stdout, "Exported %d contacts to %s\n", store.Len(), c.Output)
	}
	return nil
}

// exportFile writes the export to path.
func exportFile(path string, exporter *transfer.Exporter, list []models.Contact) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return exportAndClose(f, exporter, list)
}

// exportAndClose always closes w; a failed close is an export failure.
func exportAndClose(w io.WriteCloser, exporter *transfer.Exporter, list []models.Contact) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()
	return exporter.Export(w, list)
}

func (c *ImportCmd) Run(g *Globals) error {
	format, err := resolveFormat(c.Format, c.File)
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	result, records, err := transfer.NewImporter(format).Import(f)
	if err != nil {
		return err
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := s.store(contacts.NopRenderer{})
	if err != nil {
		return err
	}

	if c.SkipDuplicates {
		var dropped int
		records, dropped = transfer.DropExisting(records, store.Contacts())
		result.Imported -= dropped
		result.Skipped += dropped
	}

	for _, r := range records {
		if _, err := store.Create(r.Name, r.Phone, r.Email); err != nil {
			return err
		}
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(g.stderr, w)
	}
	s.logger.Info("contacts imported",
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	fmt.Fprintf(g.stdout, "Imported %d of %d contacts (%d skipped)\n", result.Imported, result.Total, result.Skipped)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("cbook"),
		kong.Description("A terminal contact book."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	cli := CLI{Globals: Globals{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}}
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
