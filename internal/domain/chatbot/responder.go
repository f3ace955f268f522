// internal/domain/chatbot/responder.go
package chatbot

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sip-sunshine/restaurant-backend/internal/config"
	"github.com/sip-sunshine/restaurant-backend/internal/domain/settings"
)

// DefaultThreshold is the minimum similarity for an intent to answer
const DefaultThreshold = 0.62

// TrackingTip is appended to tracking answers for signed-in customers
const TrackingTip = "\n\nTip: You can also check your current order in Profile."

// Normalize lowercases, trims and collapses whitespace
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Score returns the similarity of two texts in [0, 1] after normalizing
// both. It is 2*M/T over characters, M being the matched characters and T
// the combined length.
func Score(query, example string) float64 {
	a := strings.Split(Normalize(query), "")
	b := strings.Split(Normalize(example), "")
	if len(a)+len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(a, b).Ratio()
}

// Reply finds the best matching intent for message. Ties keep the earlier
// entry. Below threshold the fallback answer is returned together with the
// best score seen.
func Reply(message string, faq []Entry, threshold float64) (reply, intent string, confidence float64) {
	if strings.TrimSpace(message) == "" {
		return "Please type a question.", IntentEmpty, 0
	}

	var best *Entry
	var bestScore float64
	for i := range faq {
		for _, ex := range faq[i].Examples {
			if score := Score(message, ex); score > bestScore {
				bestScore = score
				best = &faq[i]
			}
		}
	}

	if best != nil && bestScore >= threshold {
		return best.Answer, best.Intent, bestScore
	}

	for _, e := range faq {
		if e.Intent == IntentFallback {
			return e.Answer, IntentFallback, bestScore
		}
	}
	return "How can I help?", IntentFallback, bestScore
}

// SettingsProvider supplies the active delivery settings
type SettingsProvider interface {
	Current(ctx context.Context) settings.DeliverySettings
}

// Service answers chatbot messages from the live settings
type Service struct {
	settings SettingsProvider
	config   config.RestaurantConfig
}

// NewService creates a new chatbot service
func NewService(settingsProvider SettingsProvider, cfg config.RestaurantConfig) *Service {
	return &Service{settings: settingsProvider, config: cfg}
}

// Answer replies to message. The intent table is rebuilt on every call so
// settings changes show up immediately.
func (s *Service) Answer(ctx context.Context, message string) (reply, intent string, confidence float64) {
	info := NewInfo(s.config, s.settings.Current(ctx))
	return Reply(message, BuildFAQ(info), DefaultThreshold)
}
