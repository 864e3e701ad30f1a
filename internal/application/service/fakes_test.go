package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/infrastructure/database/gormdb"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEntry struct {
	at  time.Time
	cmd func()
}

// fakeJobs records scheduled commands instead of running timers; tests fire them by hand.
type fakeJobs struct {
	mu      sync.Mutex
	next    cron.EntryID
	entries map[cron.EntryID]fakeEntry
	removed []cron.EntryID
	stopped bool
	err     error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{entries: make(map[cron.EntryID]fakeEntry)}
}

func (f *fakeJobs) ScheduleOnce(at time.Time, cmd func()) (cron.EntryID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	f.entries[f.next] = fakeEntry{at: at, cmd: cmd}
	return f.next, nil
}

func (f *fakeJobs) RemoveJob(id cron.EntryID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	f.removed = append(f.removed, id)
}

func (f *fakeJobs) GetEntries() []cron.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]cron.Entry, 0, len(f.entries))
	for id, e := range f.entries {
		list = append(list, cron.Entry{ID: id, Next: e.at})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (f *fakeJobs) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeJobs) entry(id cron.EntryID) (fakeEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	return e, ok
}

// fire runs the command of an entry as cron would.
func (f *fakeJobs) fire(t *testing.T, id cron.EntryID) {
	t.Helper()
	e, ok := f.entry(id)
	require.True(t, ok, "entry %d is not scheduled", id)
	e.cmd()
}

type sentMessage struct {
	channel  constant.Channel
	from, to string
	body     string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMessage
	fail   map[constant.Channel]error
	panics map[constant.Channel]bool
}

func (f *fakeSender) Send(_ context.Context, channel constant.Channel, from, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{channel: channel, from: from, to: to, body: body})
	if f.panics[channel] {
		panic("provider exploded")
	}
	return f.fail[channel]
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeAlerter struct {
	alerts []string
	err    error
}

func (f *fakeAlerter) Alert(_ context.Context, message string) error {
	f.alerts = append(f.alerts, message)
	return f.err
}

type fixtures struct {
	patient *entity.User
	doctor  *entity.User
}

func seedParticipants(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	ctx := context.Background()
	users := gormdb.NewUserRepository(db)
	patient := &entity.User{Email: "pat@example.com", HashedPassword: "x", Name: "Pat", Phone: "+15550001111", WhatsApp: "+15550002222", IsActive: true}
	doctor := &entity.User{Email: "house@example.com", HashedPassword: "x", Name: "House", IsDoctor: true, IsActive: true}
	require.NoError(t, users.Create(ctx, patient))
	require.NoError(t, users.Create(ctx, doctor))
	return fixtures{patient: patient, doctor: doctor}
}

func seedAppointment(t *testing.T, db *gorm.DB, f fixtures, date, clock string, status constant.AppointmentStatus) *entity.Appointment {
	t.Helper()
	a := &entity.Appointment{PatientID: f.patient.ID, DoctorID: f.doctor.ID, Date: date, Time: clock, Status: status}
	require.NoError(t, gormdb.NewAppointmentRepository(db).Create(context.Background(), a))
	return a
}

var errProvider = errors.New("provider rejected the message")
