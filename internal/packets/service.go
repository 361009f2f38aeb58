package packets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/media"
)

// Service wraps the packet and upload endpoints.
type Service struct {
	client *api.Client
	log    zerolog.Logger
}

// NewService returns a Service using client.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, log: logger}
}

// List fetches one page of packets for q.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	rel := &url.URL{Path: "/packets", RawQuery: q.Values().Encode()}
	env, err := api.Get[[]Packet](ctx, s.client, rel.String())
	if err != nil {
		return Page{}, err
	}
	items, err := env.Result("Failed to fetch packets")
	if err != nil {
		return Page{}, err
	}

	page := Page{Items: items, PerPage: q.PerPage, CurrentPage: q.Page}
	if env.Meta != nil {
		page.Total = env.Meta.Total
		if env.Meta.PerPage > 0 {
			page.PerPage = env.Meta.PerPage
		}
		if env.Meta.CurrentPage > 0 {
			page.CurrentPage = env.Meta.CurrentPage
		}
		page.TotalPages = env.Meta.TotalPages
	} else {
		page.Total = len(items)
	}
	if page.TotalPages == 0 {
		page.TotalPages = TotalPages(page.Total, page.PerPage)
	}
	return page, nil
}

// Get fetches a single packet.
func (s *Service) Get(ctx context.Context, id string) (Packet, error) {
	env, err := api.Get[Packet](ctx, s.client, packetPath(id))
	if err != nil {
		return Packet{}, err
	}
	return env.Result("Failed to fetch packet")
}

// Stats fetches the dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	env, err := api.Get[Stats](ctx, s.client, "/packets/stats")
	if err != nil {
		return Stats{}, err
	}
	return env.Result("Failed to fetch stats")
}

// Create submits a new packet.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Packet, error) {
	env, err := api.Post[Packet](ctx, s.client, "/packets", req)
	if err != nil {
		return Packet{}, err
	}
	packet, err := env.Result("Failed to create packet")
	if err != nil {
		return Packet{}, err
	}
	s.log.Info().
		Str("packet", packet.ID).
		Str("loan_account", req.LoanAccountNumber).
		Int("images", len(req.Images)).
		Msg("packet submitted")
	return packet, nil
}

// Upload sends the file at path to /uploads.
func (s *Service) Upload(ctx context.Context, path string) (Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	form := api.NewForm().AddFile("file", filepath.Base(path), f)
	env, err := api.PostForm[Upload](ctx, s.client, "/uploads", form)
	if err != nil {
		return Upload{}, err
	}
	upload, err := env.Result("Failed to upload file")
	if err != nil {
		return Upload{}, err
	}
	if upload.ID == "" {
		return Upload{}, &api.Error{Status: env.StatusCode, Message: "Failed to upload file"}
	}
	s.log.Debug().Str("upload", upload.ID).Str("file", filepath.Base(path)).Msg("file uploaded")
	return upload, nil
}

// SetLifted updates the lifted status of an approved packet.
func (s *Service) SetLifted(ctx context.Context, id string, status LiftedStatus) error {
	body := struct {
		LiftedStatus LiftedStatus `json:"liftedStatus"`
	}{status}
	env, err := api.Patch[Packet](ctx, s.client, packetPath(id)+"/lifted", body)
	if err != nil {
		return err
	}
	_, err = env.Result("Failed to update lifted status")
	return err
}

// SetInvoice records the invoice flag and the upload id of the invoice file
// ("" when none).
func (s *Service) SetInvoice(ctx context.Context, id string, hasInvoice bool, uploadID string) error {
	body := struct {
		InvoiceStatus   bool   `json:"invoiceStatus"`
		InvoiceFilePath string `json:"invoiceFilePath"`
	}{hasInvoice, uploadID}
	env, err := api.Patch[Packet](ctx, s.client, packetPath(id)+"/invoice", body)
	if err != nil {
		return err
	}
	_, err = env.Result("Failed to update invoice status")
	return err
}

// DownloadInvoice resolves the packet's invoice upload and writes it to dir
// as invoice-<id>.<ext>. It returns the written path.
func (s *Service) DownloadInvoice(ctx context.Context, id, dir string) (string, error) {
	packet, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	fileID := strings.TrimSpace(packet.InvoiceFilePath)
	if fileID == "" {
		return "", ErrNoInvoice
	}

	file, err := s.client.Download(ctx, "/uploads/"+url.PathEscape(fileID)+"/download")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	name := fmt.Sprintf("invoice-%s.%s", safeName(id), media.Extension(file.ContentType, "pdf"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, file.Body, 0o644); err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	s.log.Info().Str("packet", id).Str("path", path).Msg("invoice downloaded")
	return path, nil
}

func packetPath(id string) string {
	return "/packets/" + url.PathEscape(id)
}

func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
}
