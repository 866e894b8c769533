package webapi

import (
	"context"
	"errors"
)

// ErrCursorLoop is returned when a paginated method hands back the cursor it
// was just given, which would otherwise spin forever.
var ErrCursorLoop = errors.New("webapi: pagination cursor did not advance")

// Paginate drives a cursor-paginated method to completion. fetch is invoked
// with the cursor of the previous page (empty on the first call) and returns
// the next cursor; iteration stops when the cursor is empty, fetch fails, or
// the context is cancelled.
func Paginate(ctx context.Context, fetch func(ctx context.Context, cursor string) (next string, err error)) error {
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		if next == cursor {
			return ErrCursorLoop
		}
		cursor = next
	}
}
