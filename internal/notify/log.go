package notify

import "log"

// LogEmailSender stands in for SMTP when mail is not configured. It writes
// the outgoing message to the log so deliveries stay visible in development.
type LogEmailSender struct{}

func (LogEmailSender) SendEmail(to, subject, _ string) error {
	log.Printf("Email (not configured) to %s: %s", to, subject)
	return nil
}

// LogPushSender stands in for FCM when push is not configured.
type LogPushSender struct{}

func (LogPushSender) SendPush(_, title, _ string) error {
	log.Printf("Push (not configured): %s", title)
	return nil
}
