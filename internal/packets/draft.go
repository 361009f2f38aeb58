package packets

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/five82/packetdesk/internal/media"
)

// MaxImages is the number of photos a packet can carry.
const MaxImages = 4

// Banks and Branches are offered as completions in the submission form.
var (
	Banks = []string{
		"State Bank of India",
		"HDFC Bank",
		"ICICI Bank",
		"Punjab National Bank",
		"Bank of Baroda",
		"Axis Bank",
		"Canara Bank",
	}
	Branches = []string{
		"Mumbai Main Branch",
		"Delhi CP Branch",
		"Bangalore MG Road",
		"Chennai Mount Road",
		"Kolkata Park Street",
		"Hyderabad Banjara Hills",
		"Pune FC Road",
	}
)

// ImageSlot is one photo tile. UploadID is empty until its upload finishes.
type ImageSlot struct {
	Key      string
	Path     string
	Name     string
	MIME     string
	UploadID string
}

// Uploaded reports whether the tile has a server id.
func (s ImageSlot) Uploaded() bool {
	return s.UploadID != ""
}

// Draft is an unsubmitted packet.
type Draft struct {
	GrossWeight       string
	NetWeight         string
	BranchName        string
	BankName          string
	LoanAccountNumber string
	Images            []ImageSlot
}

// CanAddImage reports whether another photo fits.
func (d *Draft) CanAddImage() bool {
	return len(d.Images) < MaxImages
}

// AddImage registers a photo tile for path. The caller starts the upload
// and reports back with ResolveImage or RemoveImage using the slot's Key.
func (d *Draft) AddImage(path string) (ImageSlot, error) {
	if !d.CanAddImage() {
		return ImageSlot{}, &ValidationError{
			Title:   "Maximum limit reached",
			Message: fmt.Sprintf("You can only upload up to %d images.", MaxImages),
			Err:     ErrTooManyImages,
		}
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ImageSlot{}, validationError("No file", "Please enter the path of an image.")
	}
	res, err := media.DetectFile(path)
	if err != nil || !res.IsImage() {
		return ImageSlot{}, validationError("Unsupported file", fmt.Sprintf("%s is not a JPEG, PNG, GIF or WEBP image.", filepath.Base(path)))
	}

	slot := ImageSlot{
		Key:  ksuid.New().String(),
		Path: path,
		Name: filepath.Base(path),
		MIME: res.MIME,
	}
	d.Images = append(d.Images, slot)
	return slot, nil
}

// ResolveImage records the upload id for the tile with key.
func (d *Draft) ResolveImage(key, uploadID string) bool {
	for i := range d.Images {
		if d.Images[i].Key == key {
			d.Images[i].UploadID = uploadID
			return true
		}
	}
	return false
}

// RemoveImage drops the tile with key.
func (d *Draft) RemoveImage(key string) bool {
	for i := range d.Images {
		if d.Images[i].Key == key {
			d.Images = append(d.Images[:i], d.Images[i+1:]...)
			return true
		}
	}
	return false
}

// PendingUploads counts tiles still waiting for an upload id.
func (d Draft) PendingUploads() int {
	n := 0
	for _, img := range d.Images {
		if !img.Uploaded() {
			n++
		}
	}
	return n
}

// Validate runs the field checks in form order and returns the first failure.
func (d Draft) Validate() error {
	const incomplete = "Incomplete form"
	switch {
	case strings.TrimSpace(d.GrossWeight) == "":
		return validationError(incomplete, "Please enter gross weight")
	case strings.TrimSpace(d.NetWeight) == "":
		return validationError(incomplete, "Please enter net weight")
	case strings.TrimSpace(d.BranchName) == "":
		return validationError(incomplete, "Please enter branch name")
	case strings.TrimSpace(d.BankName) == "":
		return validationError(incomplete, "Please enter bank name")
	case strings.TrimSpace(d.LoanAccountNumber) == "":
		return validationError(incomplete, "Please enter loan account number")
	case len(d.Images) == 0:
		return validationError(incomplete, "Please upload at least one image")
	case d.PendingUploads() > 0:
		return validationError("Images uploading", "Please wait for all images to finish uploading.")
	}
	return nil
}

// Request validates the draft and builds the create payload.
func (d Draft) Request() (CreateRequest, error) {
	if err := d.Validate(); err != nil {
		return CreateRequest{}, err
	}
	gross, err := parseWeight(d.GrossWeight)
	if err != nil {
		return CreateRequest{}, validationError("Invalid weight", "Gross weight must be a positive number")
	}
	net, err := parseWeight(d.NetWeight)
	if err != nil {
		return CreateRequest{}, validationError("Invalid weight", "Net weight must be a positive number")
	}

	ids := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		ids = append(ids, img.UploadID)
	}
	return CreateRequest{
		GrossWeight:       gross,
		NetWeight:         net,
		BranchName:        strings.TrimSpace(d.BranchName),
		BankName:          strings.TrimSpace(d.BankName),
		LoanAccountNumber: strings.TrimSpace(d.LoanAccountNumber),
		Images:            ids,
	}, nil
}

// Reset empties every field and image.
func (d *Draft) Reset() {
	*d = Draft{}
}

func parseWeight(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("weight %v is not positive", f)
	}
	return f, nil
}
