package main

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pastebox/internal/config"
	handlers "pastebox/internal/http/handler"
	"pastebox/internal/service"
	serviceMocks "pastebox/internal/service/mocks"
)

func TestRootCmd(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "sweep", "orphans", "set-root"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	orphans, _, _ := root.Find([]string{"orphans"})
	assert.NotNil(t, orphans.Flags().Lookup("dry-run"))
	setRoot, _, _ := root.Find([]string{"set-root"})
	assert.NotNil(t, setRoot.Flags().Lookup("no-migrate"))
	assert.Error(t, setRoot.Args(setRoot, nil))
}

func TestNewServer(t *testing.T) {
	maint := new(serviceMocks.MockMaintenanceService)
	maint.On("Sweep", mock.Anything).Return(0, nil)

	a := &app{
		cfg:      &config.AppConfig{},
		registry: prometheus.NewRegistry(),
		services: handlers.Services{
			Pastes:      new(serviceMocks.MockPasteService),
			Bulk:        new(serviceMocks.MockBulkService),
			Roots:       new(serviceMocks.MockRootService),
			Maintenance: maint,
		},
	}
	server, err := newServer(a)
	require.NoError(t, err)

	resp, err := server.Test(httptest.NewRequest(http.MethodPost, "/admin/check-files", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = server.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `http_requests_total{method="POST",path="/admin/check-files",status="200"} 1`)
}

func TestNewServer_LargeUpload(t *testing.T) {
	const size = 5 << 20

	var received int64
	pastes := new(serviceMocks.MockPasteService)
	pastes.On("Ingest", mock.Anything, "", mock.MatchedBy(func(files []service.Upload) bool {
		return len(files) == 1 && files[0].Filename == "big.bin"
	})).Run(func(args mock.Arguments) {
		files := args.Get(2).([]service.Upload)
		received, _ = io.Copy(io.Discard, files[0].Content)
	}).Return([]int64{7}, nil).Once()

	a := &app{
		cfg:      &config.AppConfig{},
		registry: prometheus.NewRegistry(),
		services: handlers.Services{
			Pastes:      pastes,
			Bulk:        new(serviceMocks.MockBulkService),
			Roots:       new(serviceMocks.MockRootService),
			Maintenance: new(serviceMocks.MockMaintenanceService),
		},
	}
	server, err := newServer(a)
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("files", "big.bin")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/paste", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	resp, err := server.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, size, received)
	pastes.AssertExpectations(t)
}
