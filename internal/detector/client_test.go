package detector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureArea_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/area" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sapling.jpg", header.Filename)
		assert.Equal(t, "0.45", r.FormValue("gsd"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"area": 12.5, "total_trees": 3}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	m, err := client.MeasureArea(context.Background(), []byte("jpegdata"), "sapling.jpg", 0.45)
	require.NoError(t, err)
	assert.Equal(t, 12.5, m.Area)
	assert.Equal(t, 0.45, m.GSD)
}

func TestMeasureArea_Unavailable(t *testing.T) {
	// Nothing listens here.
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.MeasureArea(context.Background(), []byte("jpegdata"), "", 0.45)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestMeasureArea_ServiceError(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "model failure"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 0).MeasureArea(context.Background(), []byte("x"), "", 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 0).MeasureArea(context.Background(), []byte("x"), "", 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrService))
	})
}

func TestMeasureArea_InvalidMeasurement(t *testing.T) {
	cases := map[string]string{
		"zero area":     `{"area": 0}`,
		"negative area": `{"area": -3.2}`,
		"missing area":  `{"total_trees": 0}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(payload))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, 0).MeasureArea(context.Background(), []byte("x"), "", 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMeasurement))
		})
	}
}

func TestMeasureArea_InputValidation(t *testing.T) {
	client := NewClient("http://example.invalid", time.Second)

	_, err := client.MeasureArea(context.Background(), nil, "", 0.45)
	assert.True(t, errors.Is(err, ErrInvalidMeasurement))

	_, err = client.MeasureArea(context.Background(), []byte("x"), "", 0)
	assert.True(t, errors.Is(err, ErrInvalidMeasurement))
}

func TestMeasureArea_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"area": 1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)

	_, err := client.MeasureArea(context.Background(), []byte("x"), "", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
