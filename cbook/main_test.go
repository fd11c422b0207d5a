package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhystmorgan/contactbook/internal/contacts"
	"rhystmorgan/contactbook/internal/models"
	"rhystmorgan/contactbook/internal/storage"
	"rhystmorgan/contactbook/internal/transfer"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// isolate points config, data and logs at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CBOOK_DATA_DIR", filepath.Join(home, "data"))
	t.Setenv("CBOOK_STORAGE_BACKEND", "file")
	t.Setenv("CBOOK_STORAGE_KEY", "contacts")
	t.Setenv("CBOOK_LOG_FILE", "")
	t.Setenv("CBOOK_LOG_LEVEL", "")
	t.Setenv("CBOOK_PASSPHRASE", "")
	return filepath.Join(home, "data")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cli := CLI{Globals: Globals{stdin: strings.NewReader(stdin), stdout: &out, stderr: &errOut}}

	parser, err := newParser(&cli,
		kong.Writers(&out, &errOut),
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run(&cli.Globals)
	return out.String(), err
}

func TestCLI_VersionFlag(t *testing.T) {
	var cli CLI
	var buf bytes.Buffer
	parser, err := newParser(&cli,
		kong.Vars{"version": "v1.2.3 abc1234"},
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic from --version flag")
		err, ok := r.(error)
		if !ok || !errors.Is(err, errExitCalled) {
			panic(r)
		}
		assert.Contains(t, buf.String(), "v1.2.3")
		assert.Contains(t, buf.String(), "abc1234")
	}()

	_, _ = parser.Parse([]string{"--version"})
}

func TestCLI_DefaultCommandIsTUI(t *testing.T) {
	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)

	ctx, err := parser.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "tui", ctx.Command())
}

func TestCLI_TUIRefusesWithoutTerminal(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "tui")
	assert.ErrorIs(t, err, errNoTerminal)
}

func TestCLI_ListEmpty(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, contacts.EmptyMessage+"\n", out)
}

func TestCLI_AddEditList(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "", "add", "Alice", "--phone", "555-1111", "-e", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Added #")

	st, err := storage.NewStorage(mustFileSlot(t, dir), "")
	require.NoError(t, err)
	loaded, err := st.LoadContacts()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	id := loaded[0].ID

	_, err = run(t, "", "edit", itoa(id), "--email", "alice@x.com")
	require.NoError(t, err)

	out, err = run(t, "", "list", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Alice")
	assert.Contains(t, out, "Phone: 555-1111")
	assert.Contains(t, out, "Email: alice@x.com")
}

func TestCLI_EditUnknownID(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "edit", "123", "--name", "Ghost")
	assert.ErrorContains(t, err, "no contact with id 123")
}

func TestCLI_DeletePrompts(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "add", "Alice")
	require.NoError(t, err)
	id := onlyID(t)

	out, err := run(t, "n\n", "delete", itoa(id))
	require.NoError(t, err)
	assert.Equal(t, "Kept.\n", out)

	out, err = run(t, "y\n", "delete", itoa(id))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted #")

	out, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, contacts.EmptyMessage+"\n", out)
}

func TestCLI_DeleteYesSkipsPrompt(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "add", "Alice")
	require.NoError(t, err)
	id := onlyID(t)

	out, err := run(t, "", "delete", "--yes", itoa(id))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted #")
}

func TestCLI_CorruptDataIsFatal(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.json"), []byte("{nope"), 0600))

	_, err := run(t, "", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	data, err := os.ReadFile(filepath.Join(dir, "contacts.json"))
	require.NoError(t, err)
	assert.Equal(t, "{nope", string(data))
}

func TestCLI_BadConfigIsFatal(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "cbook.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  flavour: mint\n"), 0600))

	_, err := run(t, "", "--config", cfgPath, "list")
	assert.Error(t, err)
}

func TestCLI_SealedRoundTrip(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CBOOK_PASSPHRASE", "hunter2")

	_, err := run(t, "", "add", "Secret Sam")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "contacts.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Secret Sam")

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret Sam")

	t.Setenv("CBOOK_PASSPHRASE", "wrong")
	_, err = run(t, "", "list")
	assert.ErrorIs(t, err, storage.ErrWrongPassphrase)
}

func mustFileSlot(t *testing.T, dir string) storage.Slot {
	t.Helper()
	slot, err := storage.NewFileSlot(dir)
	require.NoError(t, err)
	return slot
}

func onlyID(t *testing.T) int64 {
	t.Helper()
	st, err := storage.NewStorage(mustFileSlot(t, os.Getenv("CBOOK_DATA_DIR")), "")
	require.NoError(t, err)
	loaded, err := st.LoadContacts()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	return loaded[0].ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestCLI_ExportImport(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "add", "Alice", "-p", "555-1111")
	require.NoError(t, err)
	_, err = run(t, "", "add", "Bob", "-e", "b@x.com")
	require.NoError(t, err)

	csvPath := filepath.Join(t.TempDir(), "book.csv")
	out, err := run(t, "", "export", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 contacts")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "name,phone,email\nAlice,555-1111,\nBob,,b@x.com\n", string(data))

	out, err = run(t, "", "import", "--skip-duplicates", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 of 2 contacts (2 skipped)")

	out, err = run(t, "", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2 contacts")

	out, err = run(t, "", "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_contacts": 4`)
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

var errDiskGone = errors.New("disk gone")

func (c *closeFailer) Close() error {
	c.closed = true
	return errDiskGone
}

func TestExportAndClose_ReportsCloseError(t *testing.T) {
	w := &closeFailer{}
	list := []models.Contact{{ID: 1, Name: "Alice"}}

	err := exportAndClose(w, transfer.NewExporter(transfer.FormatCSV), list)
	assert.ErrorIs(t, err, errDiskGone)
	assert.True(t, w.closed)
	assert.Contains(t, w.String(), "Alice")
}

func TestExportAndClose_ExportErrorWins(t *testing.T) {
	w := &closeFailer{}

	err := exportAndClose(w, transfer.NewExporter(transfer.Format("xml")), nil)
	assert.ErrorIs(t, err, transfer.ErrUnsupportedFormat)
	assert.True(t, w.closed, "the file is closed even when the export fails")
}

func TestCLI_ExportRejectsUnknownFormat(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "export", "--format", "xml")
	assert.ErrorIs(t, err, transfer.ErrUnsupportedFormat)
}
