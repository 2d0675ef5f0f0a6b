package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/docvault-api/pkg/mailer"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	got []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	f.got = append(f.got, sent{to, subject, text, html})
	return f.err
}

func encode(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestDeliver_RendersKnownTemplate(t *testing.T) {
	s := &fakeSender{}
	job := mailer.EmailJob{
		To:       "alice@x.com",
		Template: mailtpl.VaultDenied,
		Data: mailtpl.NewVaultEventData("docvault", "Alice", "Taxes", "denied",
			mailtpl.WithReason("insufficient justification")),
	}
	require.NoError(t, deliver(context.Background(), s, encode(t, job)))
	require.Len(t, s.got, 1)
	assert.Equal(t, "alice@x.com", s.got[0].to)
	assert.NotEmpty(t, s.got[0].subject)
	assert.Contains(t, s.got[0].text, "insufficient justification")
	assert.Contains(t, s.got[0].html, "insufficient justification")
}

func TestDeliver_FallsBackToMessage(t *testing.T) {
	s := &fakeSender{}
	job := mailer.EmailJob{To: "bob@x.com", Template: "something_else", Data: map[string]any{"Message": "hello"}}
	require.NoError(t, deliver(context.Background(), s, encode(t, job)))
	require.Len(t, s.got, 1)
	assert.Equal(t, "Notification", s.got[0].subject)
	assert.Equal(t, "hello", s.got[0].text)
}

func TestDeliver_BadJobsAreNotRetried(t *testing.T) {
	s := &fakeSender{}
	assert.ErrorIs(t, deliver(context.Background(), s, []byte("{")), errBadJob)
	assert.ErrorIs(t, deliver(context.Background(), s, encode(t, mailer.EmailJob{Text: "x"})), errBadJob)
	assert.ErrorIs(t, deliver(context.Background(), s, encode(t, mailer.EmailJob{To: "a@x.com"})), errBadJob)
	assert.Empty(t, s.got)
}

func TestDeliver_SendErrorIsRetryable(t *testing.T) {
	s := &fakeSender{err: errors.New("mailgun down")}
	err := deliver(context.Background(), s, encode(t, mailer.EmailJob{To: "a@x.com", Subject: "s", Text: "t"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errBadJob)
}
