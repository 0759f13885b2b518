package schema

import (
	"encoding/json"
	c "happystack/internal/core/domain/common"
	"happystack/internal/core/domain/notifier"
)

type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewMail(msg notifier.Message) *Mail {
	return &Mail{To: string(msg.To), Subject: msg.Subject, Body: msg.Body}
}

func (m *Mail) Message() notifier.Message {
	return notifier.Message{To: c.NewEmail(m.To), Subject: m.Subject, Body: m.Body}
}

func (m *Mail) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *Mail) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}
