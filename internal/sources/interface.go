package sources

import (
	"context"

	"github.com/brandmonitor/brandmonitor/internal/models"
)

// Source is a direct platform API searcher used by scheduled monitoring.
//
// Search never fails: missing credentials and request errors both degrade to
// the synthetic mention generator, so a monitoring run always has data to
// report on.
type Source interface {
	Name() models.Platform
	Enabled() bool
	Search(ctx context.Context, keyword string) []models.Mention
}
