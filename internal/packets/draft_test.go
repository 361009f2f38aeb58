package packets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, jpegHeader, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func filledDraft(t *testing.T) Draft {
	t.Helper()
	d := Draft{
		GrossWeight:       "12.5",
		NetWeight:         "11.75",
		BranchName:        "Pune FC Road",
		BankName:          "Axis Bank",
		LoanAccountNumber: "LN-0042",
	}
	slot, err := d.AddImage(writeImage(t, "front.jpg"))
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	d.ResolveImage(slot.Key, "up-1")
	return d
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	return v.Message
}

func TestDraftValidate_Order(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   string
	}{
		{"everything empty", func(d *Draft) { *d = Draft{} }, "Please enter gross weight"},
		{"net missing", func(d *Draft) { d.NetWeight = ""; d.BranchName = "" }, "Please enter net weight"},
		{"branch missing", func(d *Draft) { d.BranchName = " "; d.BankName = "" }, "Please enter branch name"},
		{"bank missing", func(d *Draft) { d.BankName = ""; d.LoanAccountNumber = "" }, "Please enter bank name"},
		{"loan missing", func(d *Draft) { d.LoanAccountNumber = ""; d.Images = nil }, "Please enter loan account number"},
		{"no images", func(d *Draft) { d.Images = nil }, "Please upload at least one image"},
		{"image uploading", func(d *Draft) { d.Images[0].UploadID = "" }, "Please wait for all images to finish uploading."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := filledDraft(t)
			tt.mutate(&d)
			if got := validationMessage(t, d.Validate()); got != tt.want {
				t.Fatalf("Validate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDraftRequest(t *testing.T) {
	d := filledDraft(t)
	req, err := d.Request()
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if req.GrossWeight != 12.5 || req.NetWeight != 11.75 {
		t.Fatalf("weights = %v/%v, want 12.5/11.75", req.GrossWeight, req.NetWeight)
	}
	if len(req.Images) != 1 || req.Images[0] != "up-1" {
		t.Fatalf("images = %v, want [up-1]", req.Images)
	}
}

func TestDraftRequest_RejectsNonNumericWeight(t *testing.T) {
	d := filledDraft(t)
	d.GrossWeight = "twelve"
	if _, err := d.Request(); !IsValidation(err) {
		t.Fatalf("Request error = %v, want validation error", err)
	}
	d.GrossWeight = "12"
	d.NetWeight = "-1"
	if _, err := d.Request(); !IsValidation(err) {
		t.Fatalf("Request error = %v, want validation error for negative weight", err)
	}
}

func TestDraftImages_LimitAndRemoval(t *testing.T) {
	var d Draft
	path := writeImage(t, "img.jpg")
	keys := []string{}
	for i := 0; i < MaxImages; i++ {
		slot, err := d.AddImage(path)
		if err != nil {
			t.Fatalf("AddImage #%d: %v", i+1, err)
		}
		keys = append(keys, slot.Key)
	}
	if d.CanAddImage() {
		t.Fatalf("CanAddImage = true at the limit")
	}
	_, err := d.AddImage(path)
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("AddImage past limit = %v, want ErrTooManyImages", err)
	}
	if got := validationMessage(t, err); got != "You can only upload up to 4 images." {
		t.Fatalf("message = %q", got)
	}

	if keys[0] == keys[1] {
		t.Fatalf("tiles share a key")
	}
	if !d.RemoveImage(keys[1]) || len(d.Images) != MaxImages-1 {
		t.Fatalf("RemoveImage did not drop the tile")
	}
	if d.RemoveImage(keys[1]) {
		t.Fatalf("RemoveImage succeeded twice for one key")
	}
	if d.PendingUploads() != MaxImages-1 {
		t.Fatalf("PendingUploads = %d", d.PendingUploads())
	}
	if !d.ResolveImage(keys[0], "u") || d.PendingUploads() != MaxImages-2 {
		t.Fatalf("ResolveImage did not resolve the tile")
	}
	if d.ResolveImage("missing", "u") {
		t.Fatalf("ResolveImage found an unknown key")
	}
}

func TestDraftAddImage_RejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var d Draft
	if _, err := d.AddImage(path); !IsValidation(err) {
		t.Fatalf("AddImage(text) = %v, want validation error", err)
	}
	if _, err := d.AddImage(filepath.Join(t.TempDir(), "missing.jpg")); !IsValidation(err) {
		t.Fatalf("AddImage(missing) = %v, want validation error", err)
	}
	if len(d.Images) != 0 {
		t.Fatalf("rejected files created tiles")
	}
}

func TestDraftReset(t *testing.T) {
	d := filledDraft(t)
	d.Reset()
	if d.GrossWeight != "" || d.LoanAccountNumber != "" || len(d.Images) != 0 {
		t.Fatalf("Reset left %+v", d)
	}
}
