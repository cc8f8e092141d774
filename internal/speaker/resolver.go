// Package speaker derives stable speaker identities from raw name labels:
// a deterministic display color per name and deduplication of repeated
// labels within one identification pass.
package speaker

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digitalabcs/textdecoder/internal/models"
)

// Palette is the fixed set of speaker colors (0xAARRGGBB). ColorFor indexes
// into it with a stable hash, so the palette is part of the visual contract:
// append new colors at the end, never reorder.
var Palette = []int{
	0xFF4E79A7, // blue
	0xFFF28E2B, // orange
	0xFFE15759, // red
	0xFF76B7B2, // teal
	0xFF59A14F, // green
	0xFFEDC948, // yellow
	0xFFB07AA1, // purple
	0xFFFF9DA7, // pink
	0xFF9C755F, // brown
	0xFFBAB0AC, // gray
	0xFF86BCB6, // sea green
	0xFFD37295, // rose
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ColorFor returns the palette color for a speaker name. The same name maps
// to the same color in every run: the hash is FNV-1a over the normalized
// name, with no per-process seed.
func ColorFor(name string) int {
	h := fnv.New32a()
	h.Write([]byte(normalize(name)))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// Resolver deduplicates speaker labels within a single identification run.
// Resolve is called once per distinct label; repeated labels return the
// speaker created on first sight. A Resolver is not safe for concurrent use
// and is meant to live for one pass only.
type Resolver struct {
	byLabel map[string]*models.Speaker
	order   []string
	now     func() time.Time
}

// NewResolver creates a resolver for one identification pass.
func NewResolver() *Resolver {
	return &Resolver{
		byLabel: make(map[string]*models.Speaker),
		now:     time.Now,
	}
}

// WithClock overrides the resolver's clock. Used by tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve returns the speaker for a raw name label, creating it on first
// sight. Later calls with the same label (case- and space-insensitive)
// return the same speaker, so every message with that label shares one id.
func (r *Resolver) Resolve(name string, isUser bool) *models.Speaker {
	label := normalize(name)
	if sp, ok := r.byLabel[label]; ok {
		if isUser {
			sp.IsUser = true
		}
		return sp
	}
	now := r.now()
	sp := &models.Speaker{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(name),
		ColorValue: ColorFor(name),
		IsUser:     isUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.byLabel[label] = sp
	r.order = append(r.order, label)
	return sp
}

// Speakers returns all resolved speakers in first-seen order.
func (r *Resolver) Speakers() []models.Speaker {
	out := make([]models.Speaker, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, *r.byLabel[label])
	}
	return out
}
