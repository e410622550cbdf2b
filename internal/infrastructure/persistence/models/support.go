package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/support"
)

// MessageModel is the persistence model for the Message domain entity.
type MessageModel struct {
	AggregateModel
	Type        support.MessageType   `gorm:"type:varchar(20);not null;index"`
	Name        string                `gorm:"type:varchar(100);not null"`
	Email       string                `gorm:"type:varchar(200);not null;index"`
	Phone       string                `gorm:"type:varchar(50)"`
	Company     string                `gorm:"type:varchar(200)"`
	Subject     string                `gorm:"type:varchar(200);not null"`
	Body        string                `gorm:"column:message;type:text;not null"`
	Budget      string                `gorm:"type:varchar(100)"`
	Timeline    string                `gorm:"type:varchar(100)"`
	UserID      *uuid.UUID            `gorm:"type:uuid;index"`
	Status      support.MessageStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	Priority    support.Priority      `gorm:"type:varchar(20);not null;default:'normal'"`
	RespondedAt *time.Time
	IPAddress   string          `gorm:"type:varchar(45)"`
	UserAgent   string          `gorm:"type:varchar(500)"`
	Responses   []ResponseModel `gorm:"foreignKey:MessageID;references:ID"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message entity.
func (m *MessageModel) ToDomain() *support.Message {
	responses := make([]support.Response, len(m.Responses))
	for i := range m.Responses {
		responses[i] = m.Responses[i].ToDomain()
	}
	return &support.Message{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Type:              m.Type,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Company:           m.Company,
		Subject:           m.Subject,
		Body:              m.Body,
		Budget:            m.Budget,
		Timeline:          m.Timeline,
		UserID:            m.UserID,
		Status:            m.Status,
		Priority:          m.Priority,
		Responses:         responses,
		RespondedAt:       m.RespondedAt,
		IPAddress:         m.IPAddress,
		UserAgent:         m.UserAgent,
	}
}

// FromDomain populates the persistence model from a domain Message entity.
// Responses are written separately.
func (m *MessageModel) FromDomain(msg *support.Message) {
	m.FromDomainAggregateRoot(msg.BaseAggregateRoot)
	m.Type = msg.Type
	m.Name = msg.Name
	m.Email = msg.Email
	m.Phone = msg.Phone
	m.Company = msg.Company
	m.Subject = msg.Subject
	m.Body = msg.Body
	m.Budget = msg.Budget
	m.Timeline = msg.Timeline
	m.UserID = msg.UserID
	m.Status = msg.Status
	m.Priority = msg.Priority
	m.RespondedAt = msg.RespondedAt
	m.IPAddress = msg.IPAddress
	m.UserAgent = msg.UserAgent
}

// MessageModelFromDomain creates a new persistence model from a domain Message entity.
func MessageModelFromDomain(msg *support.Message) *MessageModel {
	m := &MessageModel{}
	m.FromDomain(msg)
	return m
}

// ResponseModel is one entry of a message thread
type ResponseModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	MessageID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content    string     `gorm:"type:text;not null"`
	AuthorID   *uuid.UUID `gorm:"type:uuid;index"`
	IsInternal bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ResponseModel) TableName() string {
	return "message_responses"
}

// ToDomain converts the persistence model to a domain Response
func (m *ResponseModel) ToDomain() support.Response {
	r := support.Response{
		ID:         m.ID,
		MessageID:  m.MessageID,
		Content:    m.Content,
		IsInternal: m.IsInternal,
		At:         m.CreatedAt,
	}
	if m.AuthorID != nil {
		r.AuthorID = *m.AuthorID
	}
	return r
}

// ResponseModelFromDomain creates a persistence model from a domain Response
func ResponseModelFromDomain(r *support.Response) *ResponseModel {
	m := &ResponseModel{
		ID:         r.ID,
		MessageID:  r.MessageID,
		Content:    r.Content,
		IsInternal: r.IsInternal,
		CreatedAt:  r.At,
	}
	if r.AuthorID != uuid.Nil {
		author := r.AuthorID
		m.AuthorID = &author
	}
	return m
}
