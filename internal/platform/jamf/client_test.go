package jamf

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mtamaki/office-peak/pkg/model"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestTokenClientCredentials(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/oauth/token" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		if req.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", req.Method)
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected Content-Type %s", ct)
		}
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), "grant_type=client_credentials") {
			t.Errorf("missing grant_type in body: %s", body)
		}
		return jsonResponse(200, `{"access_token":"tok-oauth"}`), nil
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", ClientID: "id", ClientSecret: "secret"})

	tok, err := c.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-oauth" {
		t.Fatalf("token = %q, want tok-oauth", tok)
	}
}

func TestTokenBasicAuthFallback(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/auth/token" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		user, pass, ok := req.BasicAuth()
		if !ok || user != "admin" || pass != "pw" {
			t.Errorf("missing or wrong basic auth")
		}
		return jsonResponse(200, `{"token":"tok-basic"}`), nil
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", Username: "admin", Password: "pw"})

	tok, err := c.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-basic" {
		t.Fatalf("token = %q, want tok-basic", tok)
	}
}

func TestTokenNoCredentials(t *testing.T) {
	c := New(http.DefaultClient, Config{BaseURL: "https://jamf.example.com"})
	if _, err := c.Token(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestTokenExchangeRejected(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(401, `{"error":"bad"}`), nil
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", ClientID: "id", ClientSecret: "secret"})
	if _, err := c.Token(context.Background()); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestSelectInventoryURLFallsBackToSection(t *testing.T) {
	var probed []string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodHead {
			t.Errorf("expected HEAD probe, got %s", req.Method)
		}
		probed = append(probed, req.URL.RawQuery)
		if strings.Contains(req.URL.RawQuery, "section=GENERAL") {
			return jsonResponse(200, ""), nil
		}
		return jsonResponse(400, ""), nil
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", Username: "u", Password: "p"})

	url, err := c.selectInventoryURL(context.Background(), "tok")
	if err != nil {
		t.Fatalf("selectInventoryURL: %v", err)
	}
	if !strings.Contains(url, "section=GENERAL") {
		t.Fatalf("expected section variant, got %s", url)
	}
	if len(probed) != 2 {
		t.Fatalf("expected both variants probed in order, got %v", probed)
	}
}

func TestSelectInventoryURLAllRejected(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(400, ""), nil
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", Username: "u", Password: "p"})
	if _, err := c.selectInventoryURL(context.Background(), "tok"); !errors.Is(err, ErrNoEndpoint) {
		t.Fatalf("expected ErrNoEndpoint, got %v", err)
	}
}

func TestStreamDevicesWalksPagination(t *testing.T) {
	const base = "https://jamf.example.com"
	page1 := `{"results":[{"id":1,"general":{"name":"mac-1"}},{"id":2,"general":{"name":"mac-2"}}],"pagination":{"next":"` + base + `/api/v1/computers-inventory?page=1&page-size=500"}}`
	page2 := `{"results":[{"id":3,"general":{"name":"mac-3"}}],"pagination":{}}`

	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Path == "/api/v1/auth/token":
			return jsonResponse(200, `{"token":"tok"}`), nil
		case req.Method == http.MethodHead:
			return jsonResponse(200, ""), nil
		case req.URL.Query().Get("page") == "1":
			return jsonResponse(200, page2), nil
		default:
			if auth := req.Header.Get("Authorization"); auth != "Bearer tok" {
				t.Errorf("missing bearer token, got %q", auth)
			}
			return jsonResponse(200, page1), nil
		}
	})
	c := New(rt, Config{BaseURL: base, Username: "u", Password: "p"})

	var names []string
	err := c.StreamDevices(context.Background(), func(d model.DeviceRecord) error {
		names = append(names, d.General.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamDevices: %v", err)
	}
	if len(names) != 3 || names[0] != "mac-1" || names[2] != "mac-3" {
		t.Fatalf("unexpected records: %v", names)
	}
}

func TestStreamDevicesFetchError(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Path == "/api/v1/auth/token":
			return jsonResponse(200, `{"token":"tok"}`), nil
		case req.Method == http.MethodHead:
			return jsonResponse(200, ""), nil
		default:
			return jsonResponse(500, "boom"), nil
		}
	})
	c := New(rt, Config{BaseURL: "https://jamf.example.com", Username: "u", Password: "p"})

	calls := 0
	err := c.StreamDevices(context.Background(), func(model.DeviceRecord) error {
		calls++
		return nil
	})
	if err == nil {
		t.Fatalf("expected error on 500 page fetch")
	}
	if calls != 0 {
		t.Fatalf("no records should be delivered on fetch failure, got %d", calls)
	}
}
