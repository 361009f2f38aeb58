package packets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the approval state of a packet.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"

	// StatusAll is the list filter value that matches every status.
	StatusAll Status = "all"
)

// StatusFilters lists the list filter values in display order.
var StatusFilters = []Status{StatusAll, StatusPending, StatusApproved, StatusRejected}

// NextStatusFilter cycles through StatusFilters.
func NextStatusFilter(current Status) Status {
	for i, s := range StatusFilters {
		if s == current {
			return StatusFilters[(i+1)%len(StatusFilters)]
		}
	}
	return StatusAll
}

// LiftedStatus is the post-approval state. The zero value means neither.
type LiftedStatus string

const (
	LiftedNone LiftedStatus = ""
	Lifted     LiftedStatus = "lifted"
	LiftedHold LiftedStatus = "hold"
)

// Label returns the display text for the lifted state.
func (l LiftedStatus) Label() string {
	switch l {
	case Lifted:
		return "Lifted"
	case LiftedHold:
		return "On Hold"
	default:
		return "Not set"
	}
}

// Weight is a gram weight. The API sends it as a number on some endpoints
// and as a decimal string on others.
type Weight float64

func (w *Weight) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*w = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse weight %s: %w", string(data), err)
	}
	*w = Weight(f)
	return nil
}

func (w Weight) String() string {
	return strconv.FormatFloat(float64(w), 'f', 2, 64)
}

// Packet is a gold packet as returned by the list and detail endpoints.
type Packet struct {
	ID                string       `json:"id"`
	GrossWeight       Weight       `json:"gross_weight"`
	NetWeight         Weight       `json:"net_weight"`
	BankName          string       `json:"bank_name"`
	BranchName        string       `json:"branch_name"`
	LoanAccountNumber string       `json:"loan_account_number"`
	SubmittedBy       string       `json:"submitted_by"`
	SubmitterName     string       `json:"submitter_name,omitempty"`
	Status            Status       `json:"status"`
	LiftedStatus      LiftedStatus `json:"lifted_status"`
	InvoiceStatus     bool         `json:"invoice_status"`
	InvoiceFilePath   string       `json:"invoice_file_path,omitempty"`
	RejectionReason   string       `json:"rejection_reason"`
	Images            []string     `json:"images"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// CanTransition reports whether lifted/hold edits apply to the packet.
func (p Packet) CanTransition() bool {
	return p.Status == StatusApproved
}

// Page is one page of the packet list.
type Page struct {
	Items       []Packet
	Total       int
	PerPage     int
	CurrentPage int
	TotalPages  int
}

// Stats are the dashboard counters.
type Stats struct {
	TotalPackets    int `json:"totalPackets"`
	PendingApproval int `json:"pendingApproval"`
	Approved        int `json:"approved"`
	Rejected        int `json:"rejected"`
	Lifted          int `json:"lifted"`
	OnHold          int `json:"onHold"`
}

// Upload is a stored file returned by /uploads.
type Upload struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	FilePath string `json:"file_path"`
	URL      string `json:"url"`
}

// CreateRequest is the body of POST /packets.
type CreateRequest struct {
	GrossWeight       float64  `json:"grossWeight"`
	NetWeight         float64  `json:"netWeight"`
	BranchName        string   `json:"branchName"`
	BankName          string   `json:"bankName"`
	LoanAccountNumber string   `json:"loanAccountNumber"`
	Images            []string `json:"images"`
}
