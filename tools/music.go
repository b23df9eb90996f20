package tools

import (
	"context"
	"fmt"
	"net/url"

	"github.com/orin-ai/orin"
)

// Music routes a track query to an external player via a deep link. The
// opener receives the URL; the default opener just acknowledges, which keeps
// headless hosts working.
type Music struct {
	open func(ctx context.Context, url string) error
}

// NewMusic creates a music control tool. A nil opener is allowed.
func NewMusic(open func(ctx context.Context, url string) error) *Music {
	return &Music{open: open}
}

func (t *Music) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "MUSIC",
		Description: "Controls external audio",
	}
}

func (t *Music) Run(ctx context.Context, params map[string]any) (string, error) {
	query := optionalString(params, "query", "lofi beats")

	if t.open != nil {
		link := "https://open.spotify.com/search/" + url.PathEscape(query)
		if err := t.open(ctx, link); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Audio routing to external player: %q", query), nil
}
