package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medreminder/internal/domain/constant"
	"medreminder/internal/infrastructure/database/gormdb"
	"medreminder/internal/infrastructure/database/gormdb/gormtest"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testFrom = SenderAddresses{SMS: "+15559990000", WhatsApp: "+15559991111"}

type reminderHarness struct {
	db      *gorm.DB
	svc     ReminderService
	sender  *fakeSender
	alerter *fakeAlerter
	hook    *test.Hook
	f       fixtures
}

func newReminderHarness(t *testing.T) *reminderHarness {
	t.Helper()
	db := gormtest.NewDB(t)
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	sender := &fakeSender{}
	alerter := &fakeAlerter{}
	return &reminderHarness{
		db:      db,
		svc:     NewReminderService(gormdb.NewSessionFactory(db), sender, alerter, testFrom, logger.FromLogrus(l)),
		sender:  sender,
		alerter: alerter,
		hook:    hook,
		f:       seedParticipants(t, db),
	}
}

func TestComposeReminderMessage(t *testing.T) {
	assert.Equal(t,
		"Reminder: You have an appointment with Dr. House on 2026-03-05 at 14:30.",
		ComposeReminderMessage("House", "2026-03-05", "14:30:00"))
	assert.Equal(t,
		"Reminder: You have an appointment with Dr. Who on 2026-03-05 at soon.",
		ComposeReminderMessage("Who", "2026-03-05", "soon"))
}

func TestHandleReminderSendsSMSThenWhatsApp(t *testing.T) {
	h := newReminderHarness(t)
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))

	body := "Reminder: You have an appointment with Dr. House on 2026-03-05 at 14:30."
	assert.Equal(t, []sentMessage{
		{channel: constant.ChannelSMS, from: testFrom.SMS, to: "+15550001111", body: body},
		{channel: constant.ChannelWhatsApp, from: testFrom.WhatsApp, to: "+15550002222", body: body},
	}, h.sender.messages())
	assert.Empty(t, h.alerter.alerts)

	deliveries, err := h.svc.ListDeliveries(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, constant.ChannelSMS, deliveries[0].Channel)
	assert.Equal(t, constant.DeliverySent, deliveries[0].Status)
	assert.Equal(t, constant.ChannelWhatsApp, deliveries[1].Channel)
	assert.Equal(t, constant.DeliverySent, deliveries[1].Status)
}

func TestHandleReminderSMSFailureStillSendsWhatsApp(t *testing.T) {
	h := newReminderHarness(t)
	h.sender.fail = map[constant.Channel]error{constant.ChannelSMS: errProvider}
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))

	sent := h.sender.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, constant.ChannelWhatsApp, sent[1].channel)

	deliveries, err := h.svc.ListDeliveries(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, constant.DeliveryFailed, deliveries[0].Status)
	assert.Contains(t, deliveries[0].ErrorMessage, errProvider.Error())
	assert.Equal(t, constant.DeliverySent, deliveries[1].Status)

	require.Len(t, h.alerter.alerts, 1)
	assert.Contains(t, h.alerter.alerts[0], "sms")

	var logged bool
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && strings.Contains(e.Message, "sms") {
			logged = true
			assert.ErrorIs(t, e.Data[logrus.ErrorKey].(error), appErrors.ErrNotification)
		}
	}
	assert.True(t, logged, "channel failure is logged with its channel")
}

func TestHandleReminderWhatsAppFailureAfterSMS(t *testing.T) {
	h := newReminderHarness(t)
	h.sender.fail = map[constant.Channel]error{constant.ChannelWhatsApp: errProvider}
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))

	deliveries, err := h.svc.ListDeliveries(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, constant.DeliverySent, deliveries[0].Status)
	assert.Equal(t, constant.DeliveryFailed, deliveries[1].Status)
}

func TestHandleReminderSenderPanicIsIsolated(t *testing.T) {
	h := newReminderHarness(t)
	h.sender.panics = map[constant.Channel]bool{constant.ChannelSMS: true}
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NotPanics(t, func() {
		require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))
	})
	sent := h.sender.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, constant.ChannelWhatsApp, sent[1].channel)
}

func TestHandleReminderAlertFailureIsLoggedOnly(t *testing.T) {
	h := newReminderHarness(t)
	h.sender.fail = map[constant.Channel]error{constant.ChannelSMS: errProvider}
	h.alerter.err = errors.New("line down")
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))
	assert.Len(t, h.sender.messages(), 2)
}

func TestHandleReminderMissingAppointment(t *testing.T) {
	h := newReminderHarness(t)

	require.NoError(t, h.svc.HandleReminder(context.Background(), 9999))
	assert.Empty(t, h.sender.messages())
}

func TestHandleReminderSkipsCancelledAppointment(t *testing.T) {
	h := newReminderHarness(t)
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusCancelled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))
	assert.Empty(t, h.sender.messages())
}

func TestHandleReminderSkipsMissingChannels(t *testing.T) {
	h := newReminderHarness(t)
	require.NoError(t, h.db.Model(h.f.patient).Update("whatsapp", "").Error)
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))

	sent := h.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, constant.ChannelSMS, sent[0].channel)
}

func TestHandleReminderSendsAgainWhenRepeated(t *testing.T) {
	h := newReminderHarness(t)
	a := seedAppointment(t, h.db, h.f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))
	require.NoError(t, h.svc.HandleReminder(context.Background(), a.ID))

	assert.Len(t, h.sender.messages(), 4)
}

func TestHandleReminderWithoutAlerter(t *testing.T) {
	db := gormtest.NewDB(t)
	f := seedParticipants(t, db)
	sender := &fakeSender{fail: map[constant.Channel]error{constant.ChannelSMS: errProvider}}
	svc := NewReminderService(gormdb.NewSessionFactory(db), sender, nil, testFrom, logger.NewNop())
	a := seedAppointment(t, db, f, "2026-03-05", "14:30:00", constant.StatusScheduled)

	require.NoError(t, svc.HandleReminder(context.Background(), a.ID))
	assert.Len(t, sender.messages(), 2)
}

func TestListDeliveriesUnknownAppointment(t *testing.T) {
	h := newReminderHarness(t)
	_, err := h.svc.ListDeliveries(context.Background(), 4242)
	assert.ErrorIs(t, err, appErrors.ErrAppointmentNotFound)
}
