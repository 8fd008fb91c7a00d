package transport_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/userclouds/sdk-go/internal/testserver"
	"github.com/userclouds/sdk-go/pkg/transport"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

func newClient(t *testing.T, cfg testserver.Config) (*transport.Client, *testserver.Server) {
	t.Helper()
	fake := testserver.NewWithConfig(cfg)
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	return transport.New(ts.URL, testserver.ClientID, testserver.ClientSecret), fake
}

func TestTokenReusedWhileFresh(t *testing.T) {
	t.Parallel()

	client, fake := newClient(t, testserver.Config{})
	ctx := context.Background()

	for range 5 {
		if err := client.Get(ctx, "/authz/objects", nil, nil); err != nil {
			t.Fatalf("get: %v", err)
		}
	}

	if got := fake.TokenRequests(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
}

func TestTokenRefreshedWhenExpired(t *testing.T) {
	t.Parallel()

	// Tokens are issued already expired, so every request finds a stale
	// cached token and refreshes exactly once before proceeding.
	client, fake := newClient(t, testserver.Config{TokenTTL: -time.Minute})
	ctx := context.Background()

	const requests = 3
	for range requests {
		if err := client.Get(ctx, "/authz/objects", nil, nil); err != nil {
			t.Fatalf("get: %v", err)
		}
	}

	if got := fake.TokenRequests(); got != requests {
		t.Errorf("token endpoint called %d times, want %d", got, requests)
	}
}

func TestBadCredentials(t *testing.T) {
	t.Parallel()

	fake := testserver.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)

	client := transport.New(ts.URL, testserver.ClientID, "wrong-secret")
	err := client.Get(context.Background(), "/authz/objects", nil, nil)

	var apiErr *ucerr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *ucerr.Error, got %v", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}

func TestNotFoundTranslation(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, testserver.Config{})

	err := client.Get(context.Background(), "/authz/objects/"+uuid.NewString(), nil, nil)
	if !ucerr.IsNotFound(err) {
		t.Fatalf("want not-found error, got %v", err)
	}
	var apiErr *ucerr.Error
	if errors.As(err, &apiErr) && apiErr.RequestID == "" {
		t.Error("error should carry the request id")
	}
}

func TestDeleteSemantics(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, testserver.Config{})
	ctx := context.Background()

	deleted, err := client.Delete(ctx, "/authz/objecttypes/"+uuid.NewString(), nil)
	if err != nil {
		t.Fatalf("delete absent: %v", err)
	}
	if deleted {
		t.Error("deleting an absent resource should report false")
	}

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	in := map[string]any{"type_name": "widget"}
	if err := client.Post(ctx, "/authz/objecttypes", in, &created); err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err = client.Delete(ctx, "/authz/objecttypes/"+created.ID.String(), nil)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("delete should report true on 204")
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, testserver.Config{})

	body, err := client.Download(context.Background(), "/userstore/download/codegensdk.py")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !strings.Contains(body, "userstore") {
		t.Errorf("unexpected artifact body %q", body)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TENANT_URL", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("CLIENT_SECRET", "")
	t.Setenv("USERCLOUDS_TENANT_URL", "")
	t.Setenv("USERCLOUDS_CLIENT_ID", "")
	t.Setenv("USERCLOUDS_CLIENT_SECRET", "")

	if _, err := transport.FromEnv(); err == nil {
		t.Fatal("FromEnv should fail with no configuration")
	} else {
		var cfgErr *ucerr.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("want *ucerr.ConfigError, got %v", err)
		}
		if cfgErr.Name != transport.EnvTenantURL {
			t.Errorf("missing variable = %q, want %q", cfgErr.Name, transport.EnvTenantURL)
		}
	}

	t.Setenv("USERCLOUDS_TENANT_URL", "https://tenant.example.com")
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	if _, err := transport.FromEnv(); err != nil {
		t.Fatalf("FromEnv with prefixed and legacy names: %v", err)
	}
}
