package packets

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Edit is the pending post-approval change for one packet.
type Edit struct {
	Lifted      LiftedStatus
	Invoice     bool
	InvoiceFile string
}

// EditFor seeds an Edit from the packet's current state.
func EditFor(p Packet) Edit {
	return Edit{Lifted: p.LiftedStatus, Invoice: p.InvoiceStatus}
}

// NeedsInvoiceFile reports whether the edit must carry an invoice file
// before it can be committed.
func (e Edit) NeedsInvoiceFile(p Packet) bool {
	return e.Lifted != LiftedNone && e.Invoice && !p.InvoiceStatus
}

// UpdateStep names a stage of ApplyUpdate.
type UpdateStep string

const (
	StepValidate      UpdateStep = "validate"
	StepLifted        UpdateStep = "lifted status"
	StepInvoiceUpload UpdateStep = "invoice upload"
	StepInvoice       UpdateStep = "invoice status"
)

// UpdateResult reports what ApplyUpdate changed and, on failure, which step
// failed. Steps before FailedStep have already been committed server side.
type UpdateResult struct {
	LiftedUpdated  bool
	InvoiceUpload  string
	InvoiceUpdated bool
	FailedStep     UpdateStep
	Err            error
}

// Changed reports whether any server side change was committed.
func (r UpdateResult) Changed() bool {
	return r.LiftedUpdated || r.InvoiceUpdated
}

// Partial reports whether some steps committed before a later one failed.
func (r UpdateResult) Partial() bool {
	return r.Err != nil && r.Changed()
}

func (r UpdateResult) fail(step UpdateStep, err error) UpdateResult {
	r.FailedStep = step
	r.Err = err
	return r
}

// ValidateEdit checks an edit against the packet before any call is made.
func ValidateEdit(p Packet, e Edit) error {
	if !p.CanTransition() {
		return &ValidationError{
			Title:   "Not approved",
			Message: "Only approved packets can be lifted or put on hold.",
			Err:     ErrNotApproved,
		}
	}
	if e.NeedsInvoiceFile(p) && e.InvoiceFile == "" {
		return validationError("Missing information", "Please select invoice status and upload an invoice if required.")
	}
	if e.Invoice && e.InvoiceFile != "" {
		info, err := os.Stat(e.InvoiceFile)
		if err != nil || info.IsDir() {
			return validationError("Invoice file", fmt.Sprintf("Cannot read %s.", e.InvoiceFile))
		}
	}
	return nil
}

// ApplyUpdate commits an edit as up to three sequential calls: the lifted
// status when it changed, then an invoice upload when a file is attached,
// then the invoice status. Calls stop at the first failure.
func (s *Service) ApplyUpdate(ctx context.Context, p Packet, e Edit) UpdateResult {
	var res UpdateResult
	if err := ValidateEdit(p, e); err != nil {
		return res.fail(StepValidate, err)
	}

	if e.Lifted != LiftedNone && e.Lifted != p.LiftedStatus {
		if err := s.SetLifted(ctx, p.ID, e.Lifted); err != nil {
			return res.fail(StepLifted, err)
		}
		res.LiftedUpdated = true
	}

	attach := e.Invoice && e.InvoiceFile != ""
	if e.Invoice != p.InvoiceStatus || attach {
		if attach {
			upload, err := s.Upload(ctx, e.InvoiceFile)
			if err != nil {
				return res.fail(StepInvoiceUpload, err)
			}
			res.InvoiceUpload = upload.ID
		}
		if err := s.SetInvoice(ctx, p.ID, e.Invoice, res.InvoiceUpload); err != nil {
			return res.fail(StepInvoice, err)
		}
		res.InvoiceUpdated = true
	}

	s.log.Info().
		Str("packet", p.ID).
		Bool("lifted_updated", res.LiftedUpdated).
		Bool("invoice_updated", res.InvoiceUpdated).
		Msg("packet status updated")
	return res
}

// IsValidation reports whether err came from a client side check.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
