// Package helplines lists the national emergency numbers offered alongside
// the SOS action.
package helplines

import "strings"

// Helpline a dialable emergency service
type Helpline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// TelURI returns the tel: link for the helpline.
func (h Helpline) TelURI() string {
	return TelURI(h.Number)
}

var national = []Helpline{
	{Name: "Police", Number: "100"},
	{Name: "Ambulance", Number: "108"},
	{Name: "Women Helpline", Number: "1091"},
}

// All returns the helplines in display order.
func All() []Helpline {
	return append([]Helpline(nil), national...)
}

// TelURI builds a tel: link, dropping spaces and dashes from number.
func TelURI(number string) string {
	return "tel:" + strings.NewReplacer(" ", "", "-", "").Replace(number)
}
