package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	pz "github.com/weberc2/httpeasy"

	"github.com/weberc2/myfs/pkg/filesystem"
	"github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/layout"
	"github.com/weberc2/myfs/pkg/testsupport"
)

func newTestServer(t *testing.T) *httptest.Server {
	fs, err := filesystem.Initialize(filesystem.FileSystemParams{
		Volume: io.NewBuffer(make([]byte, 64*layout.BytesPerInode)),
		Logger: testsupport.NullLogger(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(pz.Register(
		pz.JSONLog(ioutil.Discard),
		(&Server{FileSystem: fs}).Routes()...,
	))
	t.Cleanup(srv.Close)
	return srv
}

func do(
	t *testing.T,
	srv *httptest.Server,
	method string,
	endpoint string,
	values url.Values,
	body string,
) (int, string) {
	req, err := http.NewRequest(
		method,
		fmt.Sprintf("%s%s?%s", srv.URL, endpoint, values.Encode()),
		strings.NewReader(body),
	)
	require.NoError(t, err)

	rsp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()

	data, err := ioutil.ReadAll(rsp.Body)
	require.NoError(t, err)
	return rsp.StatusCode, string(data)
}

func TestServer(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, "POST", "/api/entries", url.Values{
		"path": {"/a"},
		"dir":  {"true"},
	}, "")
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, srv, "POST", "/api/entries", url.Values{
		"path": {"/a/b"},
	}, "")
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, srv, "PUT", "/api/content", url.Values{
		"path": {"/a/b"},
	}, "hello")
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, "GET", "/api/content", url.Values{
		"path": {"/a/b"},
	}, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hello", body)

	status, body = do(t, srv, "GET", "/api/entries", url.Values{
		"path": {"/a"},
	}, "")
	require.Equal(t, http.StatusOK, status)
	var infos []filesystem.FileInfo
	require.NoError(t, json.Unmarshal([]byte(body), &infos))
	require.Equal(t, []filesystem.FileInfo{{Index: 2, Name: "b", Size: 5}}, infos)

	status, body = do(t, srv, "GET", "/api/stat", url.Values{
		"path": {"/a"},
	}, "")
	require.Equal(t, http.StatusOK, status)
	var info filesystem.FileInfo
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	require.Equal(t, "a", info.Name)
	require.True(t, info.IsDir)

	status, body = do(t, srv, "GET", "/api/usage", nil, "")
	require.Equal(t, http.StatusOK, status)
	var usage filesystem.Usage
	require.NoError(t, json.Unmarshal([]byte(body), &usage))
	require.Equal(t, 61, usage.FreeInodes)
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t)
	_, _ = do(t, srv, "POST", "/api/entries", url.Values{"path": {"/f"}}, "")

	for _, testCase := range []struct {
		name         string
		method       string
		endpoint     string
		path         string
		extra        url.Values
		wantedStatus int
	}{
		{
			name:         "not found",
			method:       "GET",
			endpoint:     "/api/content",
			path:         "/missing",
			wantedStatus: http.StatusNotFound,
		},
		{
			name:         "already exists",
			method:       "POST",
			endpoint:     "/api/entries",
			path:         "/f",
			wantedStatus: http.StatusConflict,
		},
		{
			name:         "invalid path",
			method:       "GET",
			endpoint:     "/api/stat",
			path:         "/a b",
			wantedStatus: http.StatusBadRequest,
		},
		{
			name:         "not a directory",
			method:       "GET",
			endpoint:     "/api/entries",
			path:         "/f",
			wantedStatus: http.StatusBadRequest,
		},
		{
			name:         "is a directory",
			method:       "GET",
			endpoint:     "/api/content",
			path:         "/",
			wantedStatus: http.StatusBadRequest,
		},
		{
			name:         "bad dir flag",
			method:       "POST",
			endpoint:     "/api/entries",
			path:         "/g",
			extra:        url.Values{"dir": {"maybe"}},
			wantedStatus: http.StatusBadRequest,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			values := url.Values{"path": {testCase.path}}
			for k, v := range testCase.extra {
				values[k] = v
			}
			status, body := do(
				t,
				srv,
				testCase.method,
				testCase.endpoint,
				values,
				"",
			)
			require.Equal(t, testCase.wantedStatus, status, body)
		})
	}
}

func TestServer_NoSpace(t *testing.T) {
	srv := newTestServer(t)
	_, _ = do(t, srv, "POST", "/api/entries", url.Values{"path": {"/f"}}, "")

	status, _ := do(
		t,
		srv,
		"PUT",
		"/api/content",
		url.Values{"path": {"/f"}},
		strings.Repeat("x", 64*int(layout.BytesPerInode)),
	)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(
		t,
		srv,
		"PUT",
		"/api/content",
		url.Values{"path": {"/f"}},
		strings.Repeat("x", 64*int(layout.BytesPerInode)-800),
	)
	require.Equal(t, http.StatusInternalServerError, status)
}

func TestServer_ContentTooLarge(t *testing.T) {
	srv := newTestServer(t)
	geometry, err := layout.NewGeometry(64 * layout.BytesPerInode)
	require.NoError(t, err)

	status, _ := do(t, srv, "POST", "/api/entries", url.Values{"path": {"/f"}}, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := do(
		t,
		srv,
		"PUT",
		"/api/content",
		url.Values{"path": {"/f"}},
		strings.Repeat("x", int(geometry.DataSize())+1),
	)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body, "content too large")

	status, body = do(t, srv, "GET", "/api/content", url.Values{"path": {"/f"}}, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "", body)
}
