package domain

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// ServiceRequest is a client's request for an inspection, refill or
// installation.
type ServiceRequest struct {
	ID               ID            `json:"id"`
	RequestNumber    string        `json:"request_number"`
	ServiceType      string        `json:"service_type"`
	ExtinguisherType string        `json:"extinguisher_type,omitempty"`
	Status           RequestStatus `json:"status"`
	Description      string        `json:"description,omitempty"`
	Address          string        `json:"address,omitempty"`
	ClientName       string        `json:"client_name,omitempty"`
	CreatedAt        *Timestamp    `json:"created_at,omitempty"`
}

// Receipt is the body of GET /api/requests/{id}/receipt.
type Receipt struct {
	ReceiptURL    string `json:"receipt_url"`
	RequestNumber string `json:"request_number,omitempty"`
}
