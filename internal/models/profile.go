package models

import "encoding/json"

// UserProfile the single locally persisted user record.
// Pin is stored as plain digits.
type UserProfile struct {
	Name     string
	Phone    string
	Pin      string
	Contacts []string
	Silent   bool
}

// profileJSON is the persisted shape. Contacts are written under both keys so
// older records that only carry "contacts" still load.
type profileJSON struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone"`
	Pin               string   `json:"pin,omitempty"`
	EmergencyContacts []string `json:"emergency_contacts"`
	Contacts          []string `json:"contacts"`
	Silent            bool     `json:"silent"`
}

func (p UserProfile) MarshalJSON() ([]byte, error) {
	contacts := p.Contacts
	if contacts == nil {
		contacts = []string{}
	}
	return json.Marshal(profileJSON{
		Name:              p.Name,
		Phone:             p.Phone,
		Pin:               p.Pin,
		EmergencyContacts: contacts,
		Contacts:          contacts,
		Silent:            p.Silent,
	})
}

func (p *UserProfile) UnmarshalJSON(data []byte) error {
	var raw profileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.Phone = raw.Phone
	p.Pin = raw.Pin
	p.Silent = raw.Silent
	p.Contacts = raw.EmergencyContacts
	if len(p.Contacts) == 0 {
		p.Contacts = raw.Contacts
	}
	return nil
}

// Clone returns a copy that shares no memory with p.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Contacts != nil {
		out.Contacts = append([]string(nil), p.Contacts...)
	}
	return out
}

// HasPin reports whether a PIN has been set.
func (p UserProfile) HasPin() bool {
	return p.Pin != ""
}
