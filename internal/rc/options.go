package rc

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcpilot/rcpilot/internal/catalog"
)

// Services lists the daemon's option blocks (engine subsystems such as
// main, vfs, mount). Implements catalog.Source.
func (c *Client) Services(ctx context.Context) ([]string, error) {
	var reply struct {
		Options []string `json:"options"`
	}
	if err := c.call(ctx, "options/blocks", nil, &reply); err != nil {
		return nil, err
	}
	sort.Strings(reply.Options)
	return reply.Options, nil
}

// ServiceOptions fetches the descriptors of one option block. Implements
// catalog.Source.
func (c *Client) ServiceOptions(ctx context.Context, service string) ([]catalog.OptionDescriptor, error) {
	var reply struct {
		Options map[string][]catalog.OptionDescriptor `json:"options"`
	}
	params := map[string]any{"blocks": service}
	if err := c.call(ctx, "options/info", params, &reply); err != nil {
		return nil, err
	}
	opts, ok := reply.Options[service]
	if !ok {
		return nil, fmt.Errorf("daemon reported no options for block %q", service)
	}
	return opts, nil
}

// SetOptions pushes option values into one block of the running daemon.
func (c *Client) SetOptions(ctx context.Context, service string, values map[string]any) error {
	return c.call(ctx, "options/set", map[string]any{service: values}, &struct{}{})
}
