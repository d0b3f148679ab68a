package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	*httptest.Server
	t *testing.T
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &TestServer{
		Server: server,
		t:      t,
	}
}

// TestClient is one browser-like session against the test server: it keeps
// its own cookie jar and does not follow redirects, so tests can assert on
// Location headers.
type TestClient struct {
	ts     *TestServer
	client *http.Client
}

// NewSession starts a fresh client with an empty cookie jar. Use separate
// sessions to act as different users.
func (ts *TestServer) NewSession() *TestClient {
	jar, err := cookiejar.New(nil)
	require.NoError(ts.t, err)

	return &TestClient{
		ts: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *TestClient) GET(path string) *http.Response {
	resp, err := c.client.Get(c.ts.URL + path)
	require.NoError(c.ts.t, err)
	return resp
}

func (c *TestClient) PostForm(path string, form url.Values) *http.Response {
	resp, err := c.client.Post(c.ts.URL+path, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(c.ts.t, err)
	return resp
}

func (c *TestClient) JSON(method, path string, body interface{}, token string) *http.Response {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(c.ts.t, err)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.ts.URL+path, bodyReader)
	require.NoError(c.ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.ts.t, err)
	return resp
}

// ReadBody drains and returns the response body as a string.
func ReadBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func DecodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(target)
	require.NoError(t, err)
}
