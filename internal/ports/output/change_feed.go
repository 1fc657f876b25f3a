package output

import "context"

// ChangeFeed reports that the todo collection changed outside this process.
// Listen blocks until ctx is done or the feed fails.
type ChangeFeed interface {
	Listen(ctx context.Context, onChange func()) error
}
