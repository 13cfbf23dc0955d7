package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimClient_Geocode(t *testing.T) {
	var gotUA, gotQ, gotLimit, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQ = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		gotFormat = r.URL.Query().Get("format")
		_, _ = w.Write([]byte(`[{"lat":"-30.0277","lon":"-51.2287","display_name":"Porto Alegre"}]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "CalculadoraRotasCustomizada/1.0", time.Second)
	coord, err := client.Geocode(context.Background(), "Porto Alegre, RS")

	require.NoError(t, err)
	assert.InDelta(t, -30.0277, coord.Lat, 1e-9)
	assert.InDelta(t, -51.2287, coord.Lon, 1e-9)
	assert.Equal(t, "CalculadoraRotasCustomizada/1.0", gotUA)
	assert.Equal(t, "Porto Alegre, RS", gotQ)
	assert.Equal(t, "1", gotLimit)
	assert.Equal(t, "json", gotFormat)
}

func TestNominatimClient_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewNominatimClient(srv.URL, "test", time.Second).Geocode(context.Background(), "nowhere")

	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestNominatimClient_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-51"}]`))
	}))
	defer srv.Close()

	_, err := NewNominatimClient(srv.URL, "test", time.Second).Geocode(context.Background(), "x")

	assert.Error(t, err)
}
