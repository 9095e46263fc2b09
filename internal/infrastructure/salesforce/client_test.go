package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffe/backend/internal/infrastructure/retry"
)

const dataPrefix = "/services/data/v47.0"

// fakeOrg is a minimal Salesforce org: it issues a token and hands data calls to handler
type fakeOrg struct {
	server *httptest.Server
	logins atomic.Int32
}

func newFakeOrg(t *testing.T, handler http.HandlerFunc) *fakeOrg {
	t.Helper()
	f := &fakeOrg{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/oauth2/token" {
			f.logins.Add(1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "password", r.PostForm.Get("grant_type"))
			assert.Equal(t, "secretTOKEN", r.PostForm.Get("password"))
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token": "session-1",
				"instance_url": f.server.URL,
			})
			return
		}
		assert.Equal(t, "Bearer session-1", r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOrg) client(t *testing.T) *Client {
	t.Helper()
	policy := retry.NewPolicy(IsTransient, nil)
	policy.Sleep = func(context.Context, time.Duration) error { return nil }
	c, err := NewClient(&Config{
		Username:      "integration@ffe.test",
		Password:      "secret",
		SecurityToken: "TOKEN",
		ClientID:      "client",
		ClientSecret:  "shh",
		Host:          f.server.URL,
	}, nil, WithRetryPolicy(policy))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryResponse(records ...map[string]any) map[string]any {
	if records == nil {
		records = []map[string]any{}
	}
	return map[string]any{"totalSize": len(records), "done": true, "records": records}
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{"valid", &Config{Username: "u", Password: "p", ClientID: "id", ClientSecret: "s"}, nil},
		{"missing username", &Config{Password: "p", ClientID: "id", ClientSecret: "s"}, ErrConfigMissingUsername},
		{"missing password", &Config{Username: "u", ClientID: "id", ClientSecret: "s"}, ErrConfigMissingPassword},
		{"missing client id", &Config{Username: "u", Password: "p", ClientSecret: "s"}, ErrConfigMissingClientID},
		{"missing client secret", &Config{Username: "u", Password: "p", ClientID: "id"}, ErrConfigMissingClientSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultHost, tt.config.Host)
			assert.Equal(t, "47.0", tt.config.APIVersion)
			assert.Equal(t, "https://login.salesforce.com/services/oauth2/token", tt.config.loginURL())
		})
	}
}

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------

func TestIsTransient(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
		sentinel  error
	}{
		{http.StatusMultipleChoices, true, ErrMultipleMatches},
		{http.StatusUnauthorized, true, ErrUnauthorized},
		{http.StatusRequestEntityTooLarge, true, ErrEntityTooLarge},
		{http.StatusBadRequest, true, ErrResponse},
		{http.StatusInternalServerError, true, ErrResponse},
		{http.StatusNotFound, false, ErrNotFound},
	}
	for _, tt := range tests {
		err := newAPIError("test", tt.status, []byte(`[{"errorCode":"X","message":"y"}]`))
		assert.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)
		assert.Equal(t, tt.transient, IsTransient(err), "status %d", tt.status)
	}
	assert.False(t, IsTransient(ErrMalformedResponse))
	assert.True(t, IsTransient(ErrUnavailable))
	assert.False(t, IsTransient(nil))
}

// ---------------------------------------------------------------------------
// REST plumbing
// ---------------------------------------------------------------------------

func TestClient_QueryFollowsPages(t *testing.T) {
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case dataPrefix + "/query":
			assert.Equal(t, "SELECT Id FROM Account", r.URL.Query().Get("q"))
			writeJSON(w, http.StatusOK, map[string]any{
				"totalSize": 2, "done": false, "nextRecordsUrl": dataPrefix + "/query/01g-2000",
				"records": []map[string]any{{"Id": "001A"}},
			})
		case dataPrefix + "/query/01g-2000":
			writeJSON(w, http.StatusOK, map[string]any{
				"totalSize": 2, "done": true, "records": []map[string]any{{"Id": "001B"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	result, err := org.client(t).Query(context.Background(), "SELECT Id FROM Account")

	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.TotalSize)
}

func TestClient_ReauthenticatesAfterUnauthorized(t *testing.T) {
	var calls atomic.Int32
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusUnauthorized, []map[string]string{{"errorCode": "INVALID_SESSION_ID", "message": "expired"}})
			return
		}
		writeJSON(w, http.StatusOK, queryResponse())
	})

	_, err := org.client(t).Query(context.Background(), "SELECT Id FROM Account")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(2), org.logins.Load())
}

func TestClient_RetriesTransientErrorsThreeTimes(t *testing.T) {
	var calls atomic.Int32
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, []map[string]string{{"errorCode": "UNKNOWN_EXCEPTION", "message": "boom"}})
	})

	err := org.client(t).Update(context.Background(), "Account", "001A", map[string]any{"Name": "x"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNKNOWN_EXCEPTION", apiErr.ErrorCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusNotFound, []map[string]string{{"errorCode": "NOT_FOUND", "message": "gone"}})
	})

	var out map[string]any
	err := org.client(t).FindByExternalID(context.Background(), "Account", "Account_External_ID__c", "abc", nil, &out)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UpsertOmitsKeyFieldFromBody(t *testing.T) {
	org := newFakeOrg(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, dataPrefix+"/sobjects/Account/Id/001A", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "Id")
		assert.Equal(t, "Trust", body["Name"])
		w.WriteHeader(http.StatusNoContent)
	})

	id, err := org.client(t).Upsert(context.Background(), "Account", "Id", "001A", map[string]any{"Id": "001A", "Name": "Trust"})

	require.NoError(t, err)
	assert.Equal(t, "001A", id)
}

func TestClient_LoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "authentication failure"})
	}))
	defer server.Close()

	policy := retry.NewPolicy(IsTransient, nil)
	policy.Sleep = func(context.Context, time.Duration) error { return nil }
	c, err := NewClient(&Config{Username: "u", Password: "p", ClientID: "id", ClientSecret: "s", Host: server.URL}, nil, WithRetryPolicy(policy))
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "SELECT Id FROM Account")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, strings.Contains(err.Error(), "invalid_grant"))
}
