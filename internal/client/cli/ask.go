package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/client/client"
)

// Ask sends question to the server and prints the answer followed by its
// sources. An expired or rejected token logs the user out.
func (a *App) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		fmt.Fprintln(a.out, "Usage: ask <question>")
		return nil
	}

	if a.config != nil && a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	resp, err := a.api.Query(ctx, question)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "Session expired, please log in again")
			a.api.Logout()
			a.userName = ""
		case errors.Is(err, client.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, try again later")
			a.setMode(ModeOffline)
		case errors.Is(err, client.ErrBadRequest):
			fmt.Fprintln(a.out, "The question was rejected by the server")
		default:
			fmt.Fprintf(a.out, "Query failed: %s\n", err)
		}
		return err
	}

	fmt.Fprintln(a.out, resp.Response)
	if len(resp.Sources) > 0 {
		fmt.Fprintf(a.out, "Sources: %s\n", strings.Join(resp.Sources, ", "))
	}
	return nil
}
