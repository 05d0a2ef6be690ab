// Package sos notifies a user's emergency contacts when the safety gate escalates.
package sos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Contact is a person notified on escalation.
type Contact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship,omitempty"`
}

// ContactSource resolves the emergency contacts of a user.
type ContactSource interface {
	ContactsFor(ctx context.Context, userID string) ([]Contact, error)
}

// DefaultContactsKey holds contacts applied to users without their own entry.
const DefaultContactsKey = "*"

// StaticContacts maps user ids to contacts, loaded from configuration.
type StaticContacts map[string][]Contact

// ParseStaticContacts decodes {"user-id":[{"name":"..","email":".."}]}.
// Entries without an email are dropped.
func ParseStaticContacts(raw string) (StaticContacts, error) {
	out := StaticContacts{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var decoded map[string][]Contact
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("sos: parse contacts: %w", err)
	}
	for userID, contacts := range decoded {
		for _, c := range contacts {
			c.Email = strings.TrimSpace(c.Email)
			if c.Email == "" {
				continue
			}
			out[userID] = append(out[userID], c)
		}
	}
	return out, nil
}

func (s StaticContacts) ContactsFor(_ context.Context, userID string) ([]Contact, error) {
	if contacts, ok := s[userID]; ok {
		return contacts, nil
	}
	return s[DefaultContactsKey], nil
}

var _ ContactSource = StaticContacts(nil)
