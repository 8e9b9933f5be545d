package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumify/backend/cache"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
)

// ErrUnsupportedLanguage is returned for codes missing from Languages
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Translator turns the English form labels into another language
type Translator interface {
	TranslateLabels(ctx context.Context, language Language, english Set) (Set, error)
}

// Provider serves label sets, translating each language once and caching it
type Provider struct {
	translator Translator
	cache      cache.Cache
	ttl        time.Duration
	log        zerolog.Logger
}

// NewProvider creates a provider; translator may be nil when no model is configured
func NewProvider(translator Translator, c cache.Cache, ttl time.Duration) *Provider {
	return &Provider{
		translator: translator,
		cache:      c,
		ttl:        ttl,
		log:        logger.With("labels"),
	}
}

// Labels returns the form labels of code. English is served locally.
func (p *Provider) Labels(ctx context.Context, code string) (Set, error) {
	language, ok := Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
	}
	if language.Code == models.DefaultLanguage {
		return EnglishForm(), nil
	}

	key := "labels:" + language.Code
	if cached, err := p.cache.Get(ctx, key); err == nil {
		var set Set
		if err := json.Unmarshal([]byte(cached), &set); err == nil && len(set) > 0 {
			return set, nil
		}
		p.log.Warn().Str("language", language.Code).Msg("discarding unreadable cached labels")
	} else if !errors.Is(err, cache.ErrMiss) {
		p.log.Warn().Err(err).Str("language", language.Code).Msg("label cache read failed")
	}

	if p.translator == nil {
		return nil, fmt.Errorf("%w: no translator configured", ErrUnavailable)
	}

	set, err := p.translator.TranslateLabels(ctx, language, EnglishForm())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if data, err := json.Marshal(set); err == nil {
		if err := p.cache.Set(ctx, key, string(data), p.ttl); err != nil {
			p.log.Warn().Err(err).Str("language", language.Code).Msg("label cache write failed")
		}
	}
	p.log.Info().Str("language", language.Code).Int("labels", len(set)).Msg("translated form labels")
	return set, nil
}
