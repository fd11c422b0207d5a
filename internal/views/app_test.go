package views

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rhystmorgan/contactbook/internal/contacts"
	"rhystmorgan/contactbook/internal/models"
	"rhystmorgan/contactbook/internal/storage"
)

// flakyPersister fails saves while failErr is set.
type flakyPersister struct {
	*storage.Storage
	failErr error
}

func (p *flakyPersister) SaveContacts(list []models.Contact) error {
	if p.failErr != nil {
		return p.failErr
	}
	return p.Storage.SaveContacts(list)
}

func newTestApp(t *testing.T, seed ...models.Contact) (*AppModel, *flakyPersister) {
	t.Helper()
	st, err := storage.NewStorage(storage.NewMemorySlot(), "")
	require.NoError(t, err)
	if len(seed) > 0 {
		require.NoError(t, st.SaveContacts(seed))
	}
	p := &flakyPersister{Storage: st}

	list := NewListModel()
	store, err := contacts.NewStore(p, list)
	require.NoError(t, err)

	app := NewAppModel(store, list, zaptest.NewLogger(t))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, p
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *AppModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func persisted(t *testing.T, p *flakyPersister) []models.Contact {
	t.Helper()
	got, err := p.LoadContacts()
	require.NoError(t, err)
	return got
}

func TestAppModel_StartsWithEmptyState(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()
	assert.Contains(t, view, contacts.EmptyMessage)
	assert.False(t, app.form.Visible())
}

func TestAppModel_LoadingBeforeWindowSize(t *testing.T) {
	st, err := storage.NewStorage(storage.NewMemorySlot(), "")
	require.NoError(t, err)
	list := NewListModel()
	store, err := contacts.NewStore(st, list)
	require.NoError(t, err)

	app := NewAppModel(store, list, nil)
	assert.Equal(t, "Loading...", app.View())
}

func TestAppModel_CreateContact(t *testing.T) {
	app, p := newTestApp(t)

	app.Update(runes("n"))
	require.True(t, app.form.Visible())
	assert.Equal(t, FormFieldName, app.form.Focused())

	typeText(app, "Alice")
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(app, "555-1111")
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(app, "a@x.com")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd, "a successful save schedules the feedback timeout")

	got := persisted(t, p)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "555-1111", got[0].Phone)
	assert.Equal(t, "a@x.com", got[0].Email)

	assert.False(t, app.form.Visible())
	require.Equal(t, 1, app.list.Len())
	view := app.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "Contact saved")
	assert.NotContains(t, view, contacts.EmptyMessage)
}

func TestAppModel_FormCapturesListKeys(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(runes("n"))
	app.Update(runes("q"))
	app.Update(runes("d"))

	assert.True(t, app.form.Visible())
	assert.False(t, app.confirm.Visible())
	assert.Equal(t, "qd", app.form.Fields().Name)
}

func TestAppModel_EditSelectedContact(t *testing.T) {
	app, p := newTestApp(t,
		models.Contact{ID: 1, Name: "Alice", Phone: "1", Email: "a@x"},
		models.Contact{ID: 2, Name: "Bob", Phone: "2", Email: "b@x"},
	)

	app.Update(runes("j"))
	app.Update(runes("e"))

	require.True(t, app.form.Visible())
	assert.Equal(t, contacts.Fields{Name: "Bob", Phone: "2", Email: "b@x"}, app.form.Fields())
	assert.Contains(t, app.View(), "Edit Contact")

	typeText(app, "by")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := persisted(t, p)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Bobby", got[1].Name)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestAppModel_EscHidesFormAndKeepsTarget(t *testing.T) {
	app, _ := newTestApp(t, models.Contact{ID: 1, Name: "Alice"})

	app.Update(runes("e"))
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	st := app.controller.State()
	assert.False(t, app.form.Visible())
	assert.Equal(t, contacts.ModeClosed, st.Mode)
	assert.True(t, st.HasEditTarget)

	app.Update(runes("n"))
	assert.Equal(t, contacts.Fields{}, app.form.Fields())
	assert.Contains(t, app.View(), "New Contact")
}

func TestAppModel_DeleteDeclined(t *testing.T) {
	app, p := newTestApp(t, models.Contact{ID: 1, Name: "Alice"})
	before := persisted(t, p)

	app.Update(runes("d"))
	require.True(t, app.confirm.Visible())
	assert.Contains(t, app.View(), contacts.DeletePrompt)

	_, cmd := app.Update(runes("n"))
	assert.False(t, app.confirm.Visible())
	assert.Equal(t, before, persisted(t, p))
	assert.NotNil(t, cmd)
	require.NotNil(t, app.feedback)
	assert.Equal(t, FeedbackInfo, app.feedback.Type)
	assert.Contains(t, app.View(), "Delete cancelled")
}

func TestAppModel_DeleteAccepted(t *testing.T) {
	app, p := newTestApp(t,
		models.Contact{ID: 1, Name: "Alice"},
		models.Contact{ID: 2, Name: "Bob"},
	)

	app.Update(runes("j"))
	app.Update(runes("d"))
	app.Update(runes("y"))

	got := persisted(t, p)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)

	card, ok := app.list.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), card.Contact.ID, "cursor falls back onto the remaining card")
	assert.Contains(t, app.View(), "Contact deleted")
}

func TestAppModel_DeleteLastShowsEmptyState(t *testing.T) {
	app, p := newTestApp(t, models.Contact{ID: 1, Name: "Alice"})

	app.Update(runes("d"))
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, persisted(t, p))
	assert.Contains(t, app.View(), contacts.EmptyMessage)
}

func TestAppModel_ConfirmSwallowsOtherKeys(t *testing.T) {
	app, p := newTestApp(t, models.Contact{ID: 1, Name: "Alice"})

	app.Update(runes("d"))
	_, cmd := app.Update(runes("q"))
	assert.Nil(t, cmd)
	assert.True(t, app.confirm.Visible())
	assert.Len(t, persisted(t, p), 1)
}

func TestAppModel_SaveFailureShowsError(t *testing.T) {
	app, p := newTestApp(t)
	p.failErr = errors.New("disk full")

	app.Update(runes("n"))
	typeText(app, "Alice")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, app.form.Visible(), "the form stays open so the input is not lost")
	assert.Equal(t, 0, app.store.Len())
	require.NotNil(t, app.feedback)
	assert.Equal(t, FeedbackError, app.feedback.Type)
	view := app.View()
	assert.Contains(t, view, "Error:")
	assert.Contains(t, view, "disk full")
	assert.Contains(t, view, "Changes were not saved")

	p.failErr = nil
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotContains(t, app.View(), "Error:")
	assert.Len(t, persisted(t, p), 1)
	assert.Equal(t, 1, app.store.Len(), "retrying the submit stores the contact once")
}

func TestAppModel_FeedbackTimeout(t *testing.T) {
	app, _ := newTestApp(t)

	app.showFeedback(FeedbackInfo, "first")
	stale := app.feedbackSeq
	app.showFeedback(FeedbackInfo, "second")

	app.Update(FeedbackTimeoutMsg{seq: stale})
	require.NotNil(t, app.feedback)
	assert.Equal(t, "second", app.feedback.Message)

	app.Update(FeedbackTimeoutMsg{seq: app.feedbackSeq})
	assert.Nil(t, app.feedback)
}
