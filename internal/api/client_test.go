package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type fakeCreds struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (f *fakeCreds) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCreds) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

type packetRow struct {
	ID string `json:"id"`
}

func newTestClient(t *testing.T, srv *httptest.Server, creds Credentials) *Client {
	t.Helper()
	client, err := NewClient(srv.URL+"/api", creds)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestGet_AttachesBearerAndDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/packets" {
			t.Fatalf("path = %q, want /api/packets", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Fatalf("page = %q, want 2", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("Authorization = %q, want Bearer tok-1", got)
		}
		if _, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err != nil {
			t.Fatalf("X-Request-ID %q is not a uuid: %v", r.Header.Get(RequestIDHeader), err)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"a"},{"id":"b"}],"meta":{"total":12,"per_page":10,"current_page":2,"total_pages":2}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, &fakeCreds{token: "tok-1"})
	env, err := Get[[]packetRow](context.Background(), client, "/packets?page=2")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !env.Success || len(env.Data) != 2 || env.Data[1].ID != "b" {
		t.Fatalf("envelope = %+v, want two rows", env)
	}
	if env.Meta == nil || env.Meta.Total != 12 || env.Meta.TotalPages != 2 {
		t.Fatalf("meta = %+v, want total 12 over 2 pages", env.Meta)
	}
}

func TestGet_NoTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("Authorization = %q, want empty", got)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	for _, creds := range []Credentials{nil, &fakeCreds{}} {
		client := newTestClient(t, srv, creds)
		if _, err := Get[any](context.Background(), client, "/packets/stats"); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Token expired"}`)
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	client := newTestClient(t, srv, creds)

	_, err := Patch[any](context.Background(), client, "/packets/p1/lifted", map[string]string{"liftedStatus": "lifted"})
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want 401", err)
	}
	if Message(err) != "Token expired" {
		t.Fatalf("Message = %q, want Token expired", Message(err))
	}
	if creds.cleared != 1 || creds.Token() != "" {
		t.Fatalf("credentials cleared %d times, token %q; want cleared once", creds.cleared, creds.Token())
	}
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", http.StatusBadRequest, `{"success":false,"message":"Invalid weight"}`, "Invalid weight"},
		{"no message", http.StatusInternalServerError, `{"success":false}`, DefaultErrorMessage},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, DefaultErrorMessage},
		{"empty body", http.StatusNotFound, ``, DefaultErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			creds := &fakeCreds{token: "tok"}
			client := newTestClient(t, srv, creds)
			_, err := Get[any](context.Background(), client, "/packets/x")

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %T %v, want *Error", err, err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Fatalf("Error = {%d %q}, want {%d %q}", apiErr.Status, apiErr.Message, tt.status, tt.wantMsg)
			}
			if creds.cleared != 0 {
				t.Fatalf("credentials cleared on %d", tt.status)
			}
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv, nil)
	srv.Close()

	_, err := Get[any](context.Background(), client, "/packets")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != NetworkErrorMessage {
		t.Fatalf("Error = {%d %q}, want {500 %q}", apiErr.Status, apiErr.Message, NetworkErrorMessage)
	}
	if apiErr.Unwrap() == nil {
		t.Fatalf("network error does not wrap its cause")
	}
}

func TestPost_SendsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["grossWeight"] != 12.5 {
			t.Fatalf("grossWeight = %v, want 12.5", body["grossWeight"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"new"},"message":"Packet created"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	env, err := Post[packetRow](context.Background(), client, "/packets", map[string]any{"grossWeight": 12.5})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	row, err := env.Result("Failed to create packet")
	if err != nil || row.ID != "new" {
		t.Fatalf("Result = %+v, %v; want id new", row, err)
	}
}

func TestPutAndDelete(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		wantBody string
		call     func(*Client) (*Envelope[packetRow], error)
	}{
		{
			name:     "put sends json",
			method:   http.MethodPut,
			wantBody: `{"bankName":"Federal"}`,
			call: func(c *Client) (*Envelope[packetRow], error) {
				return Put[packetRow](context.Background(), c, "/packets/p1", map[string]string{"bankName": "Federal"})
			},
		},
		{
			name:   "delete sends no body",
			method: http.MethodDelete,
			call: func(c *Client) (*Envelope[packetRow], error) {
				return Delete[packetRow](context.Background(), c, "/packets/p1")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tt.method || r.URL.Path != "/api/packets/p1" {
					t.Errorf("request = %s %s, want %s /api/packets/p1", r.Method, r.URL.Path, tt.method)
				}
				raw, _ := io.ReadAll(r.Body)
				if got := strings.TrimSpace(string(raw)); got != tt.wantBody {
					t.Errorf("body = %q, want %q", got, tt.wantBody)
				}
				ct := r.Header.Get("Content-Type")
				if tt.wantBody != "" && ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
				if tt.wantBody == "" && ct != "" {
					t.Errorf("Content-Type = %q on a request without a body", ct)
				}
				_, _ = io.WriteString(w, `{"success":true,"data":{"id":"p1"},"message":"ok"}`)
			}))
			defer srv.Close()

			env, err := tt.call(newTestClient(t, srv, &fakeCreds{token: "tok-1"}))
			if err != nil {
				t.Fatalf("%s returned error: %v", tt.method, err)
			}
			if !env.Success || env.Data.ID != "p1" || env.Message != "ok" {
				t.Fatalf("envelope = %+v, want success with id p1", env)
			}
		})
	}
}

func TestPostForm_SniffsPartContentType(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3, 4}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Fatalf("Content-Type = %q, want multipart", r.Header.Get("Content-Type"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "front.png" {
			t.Fatalf("filename = %q, want front.png", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("part Content-Type = %q, want image/png", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != string(png) {
			t.Fatalf("part body = %v, want %v", data, png)
		}
		if got := r.FormValue("kind"); got != "packet" {
			t.Fatalf("kind = %q, want packet", got)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"up-1"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	form := NewForm().AddField("kind", "packet").AddFile("file", "front.png", strings.NewReader(string(png)))
	env, err := PostForm[packetRow](context.Background(), client, "/uploads", form)
	if err != nil {
		t.Fatalf("PostForm returned error: %v", err)
	}
	if env.Data.ID != "up-1" {
		t.Fatalf("upload id = %q, want up-1", env.Data.ID)
	}
}

func TestDownload_ReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/uploads/u9/download" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "*/*" {
			t.Fatalf("Accept = %q, want */*", got)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4 body")
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)
	file, err := client.Download(context.Background(), "/uploads/u9/download")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if string(file.Body) != "%PDF-1.4 body" || file.ContentType != "application/pdf" {
		t.Fatalf("file = %q (%s), want pdf body", file.Body, file.ContentType)
	}
}

func TestEnvelopeResult_Fallback(t *testing.T) {
	env := &Envelope[packetRow]{Success: false, StatusCode: http.StatusOK}
	if _, err := env.Result("Login failed"); Message(err) != "Login failed" {
		t.Fatalf("Message = %q, want Login failed", Message(err))
	}
	env.Message = "Invalid credentials"
	if _, err := env.Result("Login failed"); Message(err) != "Invalid credentials" {
		t.Fatalf("Message = %q, want Invalid credentials", Message(err))
	}
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:5000/api"},
		{"localhost:5000/api/", "http://localhost:5000/api"},
		{"https://auction.example.com/api?x=1#frag", "https://auction.example.com/api"},
		{"http://10.0.0.2:8080", "http://10.0.0.2:8080/"},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if err != nil {
			t.Fatalf("parseBaseURL(%q) returned error: %v", tt.in, err)
		}
		if u.String() != tt.want {
			t.Errorf("parseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}
