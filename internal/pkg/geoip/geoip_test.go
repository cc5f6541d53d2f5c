package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.7", r.URL.Path)
		w.Write([]byte(`{
			"status": "success",
			"country": "Germany",
			"city": "Berlin",
			"regionName": "Berlin",
			"timezone": "Europe/Berlin",
			"isp": "Example ISP"
		}`))
	}))
	defer srv.Close()

	loc, err := New(srv.URL).Lookup(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "Germany", loc.Country)
	assert.Equal(t, "Berlin", loc.City)
	assert.Equal(t, "Europe/Berlin", loc.Timezone)
	assert.Equal(t, "Example ISP", loc.ISP)
}

func TestLookupAPIFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "fail", "message": "reserved range"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "203.0.113.7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestLookupRejectsNonPublicAddresses(t *testing.T) {
	c := New("http://unused.invalid")
	for _, ip := range []string{
		"", "localhost", "not-an-ip",
		"127.0.0.1", "::1", "0.0.0.0",
		"10.0.0.1", "172.16.5.5", "192.168.1.1", "fd00::1",
		"169.254.1.1",
	} {
		_, err := c.Lookup(context.Background(), ip)
		assert.Error(t, err, "ip %q", ip)
	}
}

func TestLookupHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Lookup(context.Background(), "203.0.113.7")
	assert.Error(t, err)
}
