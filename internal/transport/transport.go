// Package transport runs HTTP requests through a retry-handler chain. It
// backs the thin API clients that do not need the Web API envelope logic.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/gaborage/slackline/logger"
	"github.com/gaborage/slackline/retry"
)

const maxDrainBytes = 1 << 20

// Do sends the request produced by build, consulting handlers after each
// failed attempt. build runs once per attempt so request bodies can be
// recreated. The returned response's body is open; the caller closes it.
func Do(ctx context.Context, client *http.Client, handlers []retry.Handler, log logger.Logger, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	state := &retry.State{}

	for {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, sendErr := client.Do(req)

		var accepted retry.Handler
		for _, h := range handlers {
			if h.CanRetry(ctx, state, req, resp, sendErr) {
				accepted = h
				break
			}
		}
		if accepted == nil {
			return resp, sendErr
		}

		log.Debug().
			Str("handler", accepted.Name()).
			Int("attempt", state.Attempt).
			Str("url", req.URL.String()).
			Msg("retrying request")

		if err := accepted.Prepare(ctx, state, resp); err != nil {
			drain(resp)
			return nil, err
		}
		drain(resp)
	}
}

func drain(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	resp.Body.Close()
}
