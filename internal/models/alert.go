package models

import "time"

// AlertRequest the SOS payload submitted to the remote service
type AlertRequest struct {
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Contacts []string    `json:"contacts"`
	Location LocationFix `json:"location"`
	Silent   bool        `json:"silent"`
}

// AlertStatus terminal result of one dispatch attempt
type AlertStatus string

const (
	AlertSent         AlertStatus = "sent"
	AlertFailed       AlertStatus = "failed"
	AlertNetworkError AlertStatus = "network_error"
)

// AlertOutcome is emitted once per dispatch attempt and never retained.
type AlertOutcome struct {
	ID        string      `json:"id"`
	Status    AlertStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Error     string      `json:"error,omitempty"`
}
