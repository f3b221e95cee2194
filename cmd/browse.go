package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"streambox/internal/router"
	"streambox/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [request]",
	Short: "Navigate the catalog interactively with fzf",
	Args:  cobra.MaximumNArgs(1),
	RunE:  browseRun,
}

const backLabel = "[Back]"

// choice is one selectable line of a listing: an item or one of its context
// menu entries.
type choice struct {
	label string
	url   string
	back  bool
}

func browseRun(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	current, err := router.ParseRequest(raw)
	if err != nil {
		return err
	}

	// Each step dispatches one request with fresh dependencies, like a
	// single invocation would. stack holds the listings to go back to.
	var stack []router.Request
	for {
		if err := cmd.Context().Err(); err != nil {
			return nil
		}

		term := ui.NewTerminal(io.Discard, os.Stderr, ui.WithoutOutput())
		r, err := newRouter(cfg, logger, term)
		if err != nil {
			return err
		}
		dispatchErr := r.Dispatch(cmd.Context(), current)
		if dispatchErr != nil {
			logger.Debug("browse step failed", "request", current.String(), "error", dispatchErr)
		}

		listing := term.Listing()
		if term.RefreshRequested() || listing == nil || !listing.Succeeded {
			// Actions, playback and failed listings return to the previous
			// listing, which is dispatched again to show fresh state.
			if len(stack) == 0 {
				return dispatchErr
			}
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}

		choices := listingChoices(listing, len(stack) > 0)
		if len(choices) == 0 {
			fmt.Fprintln(os.Stderr, "Nothing here.")
			if len(stack) == 0 {
				return nil
			}
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}

		labels := make([]string, len(choices))
		for i, c := range choices {
			labels[i] = c.label
		}
		prompt := listing.Category
		if prompt == "" {
			prompt = "StreamBox"
		}
		idx, err := ui.FzfSelect(prompt, labels)
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		picked := choices[idx]
		if picked.back {
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}
		next, err := router.ParseRequest(picked.url)
		if err != nil {
			return err
		}
		stack = append(stack, current)
		current = next
	}
}

// listingChoices flattens a listing into selectable lines. Context menu
// entries follow their item as "item: entry".
func listingChoices(l *ui.Listing, canGoBack bool) []choice {
	var out []choice
	if canGoBack {
		out = append(out, choice{label: backLabel, back: true})
	}
	for _, item := range l.Items {
		label := item.Label
		if item.Folder {
			label += "/"
		}
		out = append(out, choice{label: label, url: item.URL})
		for _, entry := range item.ContextMenu {
			out = append(out, choice{label: item.Label + ": " + entry.Label, url: entry.URL})
		}
	}
	return out
}
