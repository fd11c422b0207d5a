package contacts

import (
	"errors"
	"fmt"
	"time"

	"rhystmorgan/contactbook/internal/models"
	"rhystmorgan/contactbook/internal/storage"
)

// eventLog records calls across fakes so tests can assert ordering.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// recordingRenderer keeps the most recent render.
type recordingRenderer struct {
	log     *eventLog
	renders int
	empty   string
	cards   []Card
}

func (r *recordingRenderer) Reset() {
	r.renders++
	r.empty = ""
	r.cards = nil
	if r.log != nil {
		r.log.add("render")
	}
}

func (r *recordingRenderer) RenderEmpty(message string) {
	r.empty = message
}

func (r *recordingRenderer) RenderCard(card Card) {
	r.cards = append(r.cards, card)
}

// observedPersister wraps a real storage and records saves.
type observedPersister struct {
	inner   *storage.Storage
	log     *eventLog
	saves   int
	failErr error
}

func (p *observedPersister) LoadContacts() ([]models.Contact, error) {
	return p.inner.LoadContacts()
}

func (p *observedPersister) SaveContacts(contacts []models.Contact) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	if p.log != nil {
		p.log.add("save")
	}
	return p.inner.SaveContacts(contacts)
}

var errQuota = errors.New("quota exceeded")

type fakeForm struct {
	fields  Fields
	visible bool
	resets  int
}

func (f *fakeForm) Fields() Fields      { return f.fields }
func (f *fakeForm) SetFields(v Fields)  { f.fields = v }
func (f *fakeForm) Reset()              { f.fields = Fields{}; f.resets++ }
func (f *fakeForm) Show()               { f.visible = true }
func (f *fakeForm) Hide()               { f.visible = false }
func (f *fakeForm) fill(n, p, e string) { f.fields = Fields{Name: n, Phone: p, Email: e} }

// fixture wires a Store to in-memory storage with a frozen clock.
type fixture struct {
	slot      *storage.MemorySlot
	storage   *storage.Storage
	persister *observedPersister
	renderer  *recordingRenderer
	log       *eventLog
	store     *Store
}

func newFixture(seed ...models.Contact) (*fixture, error) {
	slot := storage.NewMemorySlot()
	st, err := storage.NewStorage(slot, storage.DefaultKey)
	if err != nil {
		return nil, err
	}
	if len(seed) > 0 {
		if err := st.SaveContacts(seed); err != nil {
			return nil, err
		}
	}

	log := &eventLog{}
	persister := &observedPersister{inner: st, log: log}
	renderer := &recordingRenderer{log: log}
	clock := time.UnixMilli(1_700_000_000_000)
	ids := models.NewIDSourceWithClock(func() time.Time { return clock })

	store, err := NewStore(persister, renderer, WithIDSource(ids))
	if err != nil {
		return nil, err
	}
	return &fixture{
		slot:      slot,
		storage:   st,
		persister: persister,
		renderer:  renderer,
		log:       log,
		store:     store,
	}, nil
}

func (fx *fixture) persisted() []models.Contact {
	loaded, err := fx.storage.LoadContacts()
	if err != nil {
		panic(err)
	}
	return loaded
}

func (fx *fixture) raw() string {
	data, _, err := fx.slot.Get(storage.DefaultKey)
	if err != nil {
		panic(err)
	}
	return string(data)
}
