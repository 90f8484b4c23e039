package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/ports"
	"github.com/samirrijal/digipin/pkg/digipin"
)

// Cache keys for place lookups. Codes and prefixes are always compact.
func placeIDKey(id string) string { return "places:id:" + id }

func placeCodeKey(compact string) string { return "places:code:" + compact }

func cellPageKey(prefix string, offset, limit int) string {
	return fmt.Sprintf("places:cell:%s:%d:%d", prefix, offset, limit)
}

// InvalidatePlace drops every cached lookup that can contain p: its ID entry,
// its code entry and the listing pages of each cell enclosing it. A nil cache
// is a no-op.
func InvalidatePlace(ctx context.Context, cache ports.CacheService, p *domain.Place) {
	if cache == nil || p == nil {
		return
	}
	if p.ID != "" {
		if err := cache.Delete(ctx, placeIDKey(p.ID)); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "id", p.ID, "error", err)
		}
	}

	code, err := digipin.Parse(p.DIGIPIN)
	if err != nil {
		return
	}
	compact := code.Compact()
	if err := cache.Delete(ctx, placeCodeKey(compact)); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "digipin", compact, "error", err)
	}
	for n := 1; n <= len(compact); n++ {
		if err := cache.DeletePattern(ctx, "places:cell:"+compact[:n]+":*"); err != nil {
			slog.WarnContext(ctx, "cell page invalidation failed", "prefix", compact[:n], "error", err)
			return
		}
	}
}
