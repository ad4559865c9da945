package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	olc "github.com/google/open-location-code/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Geocode(t *testing.T) {
	g := NewStatic()

	coords, err := g.Geocode(context.Background(), "20 W 34th St, New York, NY 10001")
	require.NoError(t, err)
	assert.InDelta(t, 40.7484474, coords.Lat, 1e-9)
	assert.InDelta(t, -73.9871516, coords.Lng, 1e-9)
	assert.NoError(t, olc.CheckFull(coords.PlusCode))

	_, err = g.Geocode(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGoogle_Geocode(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantAny bool
		wantLat float64
	}{
		{
			name:    "ok",
			status:  http.StatusOK,
			body:    `{"status":"OK","results":[{"geometry":{"location":{"lat":40.7484405,"lng":-73.9856644}}}]}`,
			wantLat: 40.7484405,
		},
		{
			name:    "zero results",
			status:  http.StatusOK,
			body:    `{"status":"ZERO_RESULTS","results":[]}`,
			wantErr: ErrNoResults,
		},
		{
			name:    "denied",
			status:  http.StatusOK,
			body:    `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`,
			wantAny: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantAny: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "20 W 34th St", r.URL.Query().Get("address"))
				assert.Equal(t, "key", r.URL.Query().Get("key"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGoogle("key", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
			coords, err := g.Geocode(context.Background(), "20 W 34th St")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNoResults)
			default:
				require.NoError(t, err)
				assert.InDelta(t, tt.wantLat, coords.Lat, 1e-9)
				assert.NotEmpty(t, coords.PlusCode)
			}
		})
	}
}
