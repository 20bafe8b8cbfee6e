package share

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// ErrTypeMismatch is returned when a share's type does not match the payload
// it is decoded into.
var ErrTypeMismatch = errors.New("share type does not match payload type")

// ErrInvalidPayload is returned when a share body cannot be decoded.
var ErrInvalidPayload = errors.New("invalid share payload")

// Share is a generic typed record. The Share field carries a JSON document
// whose schema is selected by Type.
type Share struct {
	ID          string        `json:"_id,omitempty"`
	Created     infinite.Time `json:"created,omitzero"`
	Modified    infinite.Time `json:"modified,omitzero"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Type        string        `json:"type,omitempty"`
	MediaType   string        `json:"mediaType,omitempty"`
	Owner       *Owner        `json:"owner,omitempty"`
	Communities []Community   `json:"communities,omitempty"`
	Share       string        `json:"share,omitempty"`
}

// Identifier implements infinite.Identified.
func (s Share) Identifier() string {
	return s.ID
}

// Owner is the person who created a share.
type Owner struct {
	ID          string `json:"_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Community is a data group a share is visible in.
type Community struct {
	ID      string `json:"_id"`
	Name    string `json:"name,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Identifier implements infinite.Identified.
func (c Community) Identifier() string {
	return c.ID
}

// Payload is a typed share body. ShareType names the share type the payload
// belongs to.
type Payload interface {
	ShareType() string
}

// EncodePayload renders a share body. Strings and json.RawMessage are sent
// as they are; anything else is encoded as JSON.
func EncodePayload(payload any) (string, error) {
	switch p := payload.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case json.RawMessage:
		return string(p), nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode share payload: %w", err)
	}
	return string(b), nil
}

// DecodePayload decodes the body of s into T. The share's type must be the
// one T declares.
func DecodePayload[T Payload](s *Share) (T, error) {
	var out T
	if s == nil {
		return out, fmt.Errorf("cannot decode payload of a nil share")
	}
	if s.Type != out.ShareType() {
		return out, fmt.Errorf("%w: share %s is %q, want %q", ErrTypeMismatch, s.ID, s.Type, out.ShareType())
	}
	if s.Share == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s.Share), &out); err != nil {
		return out, fmt.Errorf("%w: %s payload of share %s: %w", ErrInvalidPayload, s.Type, s.ID, err)
	}
	return out, nil
}
