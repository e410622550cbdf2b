package support

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		Type:    MessageTypeContact,
		Name:    " Sam ",
		Email:   "Sam@Example.com",
		Subject: "Question",
		Body:    "Do you ship abroad?",
	}
}

func TestNewMessage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m, err := NewMessage(validSubmission(), nil, "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.Equal(t, "Sam", m.Name)
		assert.Equal(t, "sam@example.com", m.Email)
		assert.Equal(t, MessageStatusNew, m.Status)
		assert.Equal(t, PriorityNormal, m.Priority)
		assert.Equal(t, "10.0.0.1", m.IPAddress)
		require.Len(t, m.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeMessageReceived, m.GetDomainEvents()[0].EventType())
	})

	t.Run("hire defaults to high priority", func(t *testing.T) {
		s := validSubmission()
		s.Type = MessageTypeHire
		m, err := NewMessage(s, nil, "", "")
		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, m.Priority)
	})

	t.Run("missing type is contact", func(t *testing.T) {
		s := validSubmission()
		s.Type = ""
		m, err := NewMessage(s, nil, "", "")
		require.NoError(t, err)
		assert.Equal(t, MessageTypeContact, m.Type)
	})

	tests := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"bad type", func(s *Submission) { s.Type = "spam" }},
		{"no name", func(s *Submission) { s.Name = " " }},
		{"bad email", func(s *Submission) { s.Email = "nope" }},
		{"no subject", func(s *Submission) { s.Subject = "" }},
		{"no body", func(s *Submission) { s.Body = "" }},
		{"bad priority", func(s *Submission) { s.Priority = "asap" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			_, err := NewMessage(s, nil, "", "")
			assert.Error(t, err)
		})
	}
}

func TestMessage_AddResponse(t *testing.T) {
	m, err := NewMessage(validSubmission(), nil, "", "")
	require.NoError(t, err)
	m.ClearDomainEvents()
	admin := uuid.New()

	_, err = m.AddResponse(admin, "checking with warehouse", true)
	require.NoError(t, err)
	assert.Equal(t, MessageStatusNew, m.Status)
	assert.Nil(t, m.RespondedAt)

	_, err = m.AddResponse(admin, "Yes we do", false)
	require.NoError(t, err)
	assert.Equal(t, MessageStatusResponded, m.Status)
	require.NotNil(t, m.RespondedAt)
	first := *m.RespondedAt
	require.Len(t, m.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeMessageResponded, m.GetDomainEvents()[0].EventType())

	require.NoError(t, m.ChangeStatus(MessageStatusClosed))
	_, err = m.AddResponse(admin, "follow-up", false)
	require.NoError(t, err)
	assert.Equal(t, MessageStatusClosed, m.Status)
	assert.Equal(t, first, *m.RespondedAt)

	assert.Len(t, m.Responses, 3)
	assert.Len(t, m.PublicResponses(), 2)

	_, err = m.AddResponse(admin, "  ", false)
	assert.Error(t, err)
}

func TestMessage_MarkRead(t *testing.T) {
	m, err := NewMessage(validSubmission(), nil, "", "")
	require.NoError(t, err)

	assert.True(t, m.MarkRead())
	assert.Equal(t, MessageStatusRead, m.Status)
	assert.False(t, m.MarkRead())

	require.NoError(t, m.ChangeStatus(MessageStatusArchived))
	assert.False(t, m.MarkRead())
	assert.Equal(t, MessageStatusArchived, m.Status)
	assert.Error(t, m.ChangeStatus("deleted"))
}

func TestMessage_IsOwnedBy(t *testing.T) {
	uid := uuid.New()
	m, err := NewMessage(validSubmission(), &uid, "", "")
	require.NoError(t, err)
	assert.True(t, m.IsOwnedBy(uid))
	assert.False(t, m.IsOwnedBy(uuid.New()))

	anon, err := NewMessage(validSubmission(), nil, "", "")
	require.NoError(t, err)
	assert.False(t, anon.IsOwnedBy(uid))
}
