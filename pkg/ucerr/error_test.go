package ucerr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func response(status int, contentType, requestID string) *http.Response {
	resp := &http.Response{StatusCode: status, Header: http.Header{}}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	if requestID != "" {
		resp.Header.Set("X-Request-Id", requestID)
	}
	return resp
}

func TestFromResponse(t *testing.T) {
	t.Parallel()

	existingID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	tests := []struct {
		name        string
		resp        *http.Response
		body        string
		wantMessage string
		wantReqID   string
		wantID      uuid.UUID
		wantAdopt   bool
	}{
		{
			name:        "string error",
			resp:        response(http.StatusBadRequest, "application/json", ""),
			body:        `{"error": "invalid selector", "request_id": "req-1"}`,
			wantMessage: "invalid selector",
			wantReqID:   "req-1",
		},
		{
			name:        "identical conflict",
			resp:        response(http.StatusConflict, "application/json", ""),
			body:        fmt.Sprintf(`{"error": {"error": "already exists", "id": %q, "identical": true}, "request_id": "req-2"}`, existingID),
			wantMessage: "already exists",
			wantReqID:   "req-2",
			wantID:      existingID,
			wantAdopt:   true,
		},
		{
			name:        "non-identical conflict",
			resp:        response(http.StatusConflict, "application/json", ""),
			body:        fmt.Sprintf(`{"error": {"error": "name taken", "id": %q, "identical": false}}`, existingID),
			wantMessage: "name taken",
		},
		{
			name:        "non-json body",
			resp:        response(http.StatusBadGateway, "text/html", ""),
			body:        "<html>bad gateway</html>",
			wantMessage: "HTTP 502 - <html>bad gateway</html>",
		},
		{
			name:        "request id from header",
			resp:        response(http.StatusInternalServerError, "application/json", "hdr-req"),
			body:        `{"error": "boom"}`,
			wantMessage: "boom",
			wantReqID:   "hdr-req",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := FromResponse(tt.resp, []byte(tt.body))
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.StatusCode != tt.resp.StatusCode {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.resp.StatusCode)
			}
			if err.RequestID != tt.wantReqID {
				t.Errorf("RequestID = %q, want %q", err.RequestID, tt.wantReqID)
			}

			id, ok := IdenticalID(err)
			if ok != tt.wantAdopt {
				t.Fatalf("IdenticalID ok = %v, want %v", ok, tt.wantAdopt)
			}
			if id != tt.wantID {
				t.Errorf("IdenticalID = %s, want %s", id, tt.wantID)
			}
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	notFound := &Error{Message: "nope", StatusCode: http.StatusNotFound}
	conflict := &Error{Message: "dup", StatusCode: http.StatusConflict}

	if !IsNotFound(notFound) {
		t.Error("IsNotFound should match a 404 error")
	}
	if IsNotFound(conflict) {
		t.Error("IsNotFound should not match a 409 error")
	}
	if !IsConflict(conflict) {
		t.Error("IsConflict should match a 409 error")
	}
	if IsConflict(fmt.Errorf("wrapped: %w", notFound)) {
		t.Error("IsConflict should not match a wrapped 404 error")
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", notFound)) {
		t.Error("IsNotFound should unwrap")
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	err := &Error{Message: "denied", StatusCode: 403, RequestID: "req-9"}
	want := "denied (HTTP 403) [request req-9]"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := &ConfigError{Name: "TENANT_URL", Desc: "Tenant URL"}
	want := `missing environment variable "TENANT_URL": UserClouds Tenant URL`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
