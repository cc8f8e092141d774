package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/digitalabcs/textdecoder/internal/engine"
	"github.com/digitalabcs/textdecoder/internal/models"
	"github.com/digitalabcs/textdecoder/internal/profile"
	"github.com/digitalabcs/textdecoder/internal/store"
)

// resolveConversation accepts a full conversation id or a unique prefix.
func resolveConversation(ctx context.Context, eng *engine.Engine, ref string) (*models.Conversation, error) {
	conv, err := eng.GetConversation(ctx, ref)
	if err == nil {
		return conv, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}

	convs, err := eng.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*models.Conversation
	for _, c := range convs {
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("conversation %q: %w", ref, store.ErrNotFound)
	default:
		return nil, fmt.Errorf("conversation id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveProfile accepts a profile id, unique id prefix, or exact name.
func resolveProfile(ctx context.Context, agg *profile.Aggregator, ref string) (*models.Profile, error) {
	p, err := agg.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}

	profiles, err := agg.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*models.Profile
	for _, cand := range profiles {
		if strings.EqualFold(cand.Name, ref) {
			return cand, nil
		}
		if strings.HasPrefix(cand.ID, ref) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("profile %q: %w", ref, store.ErrNotFound)
	default:
		return nil, fmt.Errorf("profile id %q is ambiguous (%d matches)", ref, len(matches))
	}
}
