package mocks

import "github.com/ravesdeleste/PluginPitch/domain"

// MockNotificationService is a test double for domain.NotificationService
type MockNotificationService struct {
	SendEmailFunc func(to, subject, body string) error
	SendSMSFunc   func(to, message string) error

	SentEmails []SentEmail
	SentSMS    []SentSMS
}

// SentEmail captures one SendEmail invocation
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// SentSMS captures one SendSMS invocation
type SentSMS struct {
	To      string
	Message string
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Subject: subject, Body: body})
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	m.SentSMS = append(m.SentSMS, SentSMS{To: to, Message: message})
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

var _ domain.NotificationService = (*MockNotificationService)(nil)
