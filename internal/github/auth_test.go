package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

func testPrivateKeyPEM(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return pem.EncodeToMemory(block), key
}

func TestCredentialsValidate(t *testing.T) {
	pemBytes, _ := testPrivateKeyPEM(t)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{
			name:  "token only",
			creds: Credentials{Token: "ghp_x"},
		},
		{
			name: "app only",
			creds: Credentials{App: &AppCredentials{
				ClientID:       "Iv1.abc",
				InstallationID: 99,
				PrivateKey:     pemBytes,
			}},
		},
		{
			name:    "neither",
			creds:   Credentials{},
			wantErr: true,
		},
		{
			name: "both",
			creds: Credentials{
				Token: "ghp_x",
				App:   &AppCredentials{ClientID: "Iv1.abc", InstallationID: 99, PrivateKey: pemBytes},
			},
			wantErr: true,
		},
		{
			name:    "app missing client id",
			creds:   Credentials{App: &AppCredentials{InstallationID: 99, PrivateKey: pemBytes}},
			wantErr: true,
		},
		{
			name:    "app missing installation id",
			creds:   Credentials{App: &AppCredentials{ClientID: "Iv1.abc", PrivateKey: pemBytes}},
			wantErr: true,
		},
		{
			name:    "app missing private key",
			creds:   Credentials{App: &AppCredentials{ClientID: "Iv1.abc", InstallationID: 99}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsConfiguration(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAppCredentialsTokenExchange(t *testing.T) {
	pemBytes, key := testPrivateKeyPEM(t)

	var tokenRequests int
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /app/installations/99/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++

		// The exchange must be authorized by the app JWT, signed with the
		// app's key and issued by its client id.
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		require.NoError(t, err)
		claims := parsed.Claims.(*jwt.RegisteredClaims)
		assert.Equal(t, "Iv1.abc", claims.Issuer)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": "ghs_installation", "expires_at": "2099-01-01T00:00:00Z"}`)
	})
	mux.HandleFunc("GET /orgs/acme/hooks/7/deliveries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghs_installation", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[]`)
	})

	client, err := NewClient(ClientOptions{
		Path:      "acme",
		WebhookID: 7,
		Credentials: Credentials{App: &AppCredentials{
			ClientID:       "Iv1.abc",
			InstallationID: 99,
			PrivateKey:     pemBytes,
		}},
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	_, err = client.ListDeliveries(context.Background(), "")
	require.NoError(t, err)

	// The installation token is cached until expiry, not re-minted per call.
	_, err = client.ListDeliveries(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests)
}

func TestAppCredentialsBadPrivateKey(t *testing.T) {
	_, err := NewClient(ClientOptions{
		Path:      "acme",
		WebhookID: 7,
		Credentials: Credentials{App: &AppCredentials{
			ClientID:       "Iv1.abc",
			InstallationID: 99,
			PrivateKey:     []byte("not a pem"),
		}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestAppCredentialsTokenExchangeFailure(t *testing.T) {
	pemBytes, _ := testPrivateKeyPEM(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "bad credentials"}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientOptions{
		Path:      "acme",
		WebhookID: 7,
		Credentials: Credentials{App: &AppCredentials{
			ClientID:       "Iv1.abc",
			InstallationID: 99,
			PrivateKey:     pemBytes,
		}},
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	_, err = client.ListDeliveries(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsRedelivery(err))
}
