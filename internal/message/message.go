// Package message defines the messages exchanged between page contexts and
// the lookup coordinator. Every message is a JSON object carrying a "type"
// discriminator next to its payload.
package message

import (
	"encoding/json"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// Type is the value of the "type" discriminator.
type Type string

const (
	TypeToggle            Type = "toggle"
	TypeTranslateRequest  Type = "translate-request"
	TypeTranslateCancel   Type = "translate-cancel"
	TypeTranslateResponse Type = "translate-response"
)

// Message is implemented by every message type.
type Message interface {
	Type() Type
}

// Toggle sent by a page context is an order to enable or disable lookups.
// Sent by the coordinator it informs contexts of the shared state.
type Toggle struct {
	Value bool `json:"value"`
}

func (Toggle) Type() Type { return TypeToggle }

func (m Toggle) MarshalJSON() ([]byte, error) {
	type alias Toggle
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{TypeToggle, alias(m)})
}

// TranslateRequest asks for the entries of Words.
type TranslateRequest struct {
	Words []string `json:"words"`
}

func (TranslateRequest) Type() Type { return TypeTranslateRequest }

func (m TranslateRequest) MarshalJSON() ([]byte, error) {
	type alias TranslateRequest
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{TypeTranslateRequest, alias(m)})
}

// TranslateCancel withdraws interest in Words.
type TranslateCancel struct {
	Words []string `json:"words"`
}

func (TranslateCancel) Type() Type { return TypeTranslateCancel }

func (m TranslateCancel) MarshalJSON() ([]byte, error) {
	type alias TranslateCancel
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{TypeTranslateCancel, alias(m)})
}

// TranslateResponse delivers the lookup result of Word. A nil Entry means
// the word is not in the dictionary.
type TranslateResponse struct {
	Word  string        `json:"word"`
	Entry *domain.Entry `json:"entry"`
}

// Response builds the response for a lookup result.
func Response(word string, r domain.Result) TranslateResponse {
	return TranslateResponse{Word: word, Entry: r.Entry}
}

func (TranslateResponse) Type() Type { return TypeTranslateResponse }

// Result converts the payload back to a lookup result.
func (m TranslateResponse) Result() domain.Result {
	return domain.Result{Entry: m.Entry}
}

func (m TranslateResponse) MarshalJSON() ([]byte, error) {
	type alias TranslateResponse
	return json.Marshal(struct {
		Type Type `json:"type"`
		alias
	}{TypeTranslateResponse, alias(m)})
}
