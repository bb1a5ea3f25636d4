package verify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

const outputWorkers = 8

// Output describes one expected agent output file.
type Output struct {
	Path   string
	Exists bool
	Lines  int
	Bytes  int64
}

// Outputs stats and line-counts each path concurrently. Unreadable files are
// reported as missing; only context cancellation is an error. Results keep
// the order of paths.
func Outputs(ctx context.Context, paths []string) ([]Output, error) {
	results := make([]Output, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(outputWorkers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = inspect(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify: collect outputs: %w", err)
	}
	return results, nil
}

func inspect(path string) Output {
	out := Output{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	out.Exists = true
	out.Bytes = int64(len(data))
	out.Lines = countLines(string(data))
	return out
}

// OutputReport totals an Outputs result.
type OutputReport struct {
	Total   int
	Found   int
	Missing int
	Text    string
}

// Report renders the "Agent Output Summary" block.
func Report(outputs []Output) OutputReport {
	r := OutputReport{Total: len(outputs)}
	lines := []string{"Agent Output Summary:"}
	for _, o := range outputs {
		if o.Exists {
			r.Found++
			lines = append(lines, fmt.Sprintf("- %s: OK (%d lines)", o.Path, o.Lines))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: MISSING", o.Path))
	}
	r.Missing = r.Total - r.Found
	lines = append(lines, fmt.Sprintf("Found: %d/%d outputs", r.Found, r.Total))
	r.Text = strings.Join(lines, "\n")
	return r
}
