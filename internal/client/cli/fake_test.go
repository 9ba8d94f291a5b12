package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/ragkeeper/internal/client/config"
	"github.com/dmitrijs2005/ragkeeper/internal/rpc"
)

type fakeAPI struct {
	loginUser string
	loginPass []byte
	loginErr  error

	questions []string
	queryResp *rpc.QueryResponse
	queryErr  error

	pingErr   error
	loggedOut bool
	closed    bool
}

func (f *fakeAPI) Close() error { f.closed = true; return nil }
func (f *fakeAPI) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	return f.loginErr
}
func (f *fakeAPI) Logout() { f.loggedOut = true }
func (f *fakeAPI) Query(ctx context.Context, q string) (*rpc.QueryResponse, error) {
	f.questions = append(f.questions, q)
	return f.queryResp, f.queryErr
}
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func newTestApp(api *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{config: cfg, api: api, out: &out}, &out
}

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
