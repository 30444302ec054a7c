package services

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// TravelService estimates how much travel lead a location needs. Estimates
// learned from messages ("20 minutes travel") are cached per location so a
// later commitment to the same place reuses them; unknown locations fall
// back to the rules file or the configured default.
type TravelService struct {
	cache       *cache.Cache
	rules       *RulesService
	defaultLead time.Duration
}

// NewTravelService creates a travel estimate service
func NewTravelService(rules *RulesService, defaultLead time.Duration) *TravelService {
	return &TravelService{
		// Estimates go stale: people move, routes change
		cache:       cache.New(24*time.Hour, 1*time.Hour),
		rules:       rules,
		defaultLead: defaultLead,
	}
}

func travelKey(where string) string {
	return strings.ToLower(strings.TrimSpace(where))
}

// EstimateLead returns the best known travel lead for a location
func (s *TravelService) EstimateLead(where string) time.Duration {
	key := travelKey(where)
	if key == "" {
		return s.defaultLead
	}

	if cached, found := s.cache.Get(key); found {
		if lead, ok := cached.(time.Duration); ok {
			return lead
		}
	}

	if lead, found := s.rules.LocationLead(where); found {
		return lead
	}

	return s.defaultLead
}

// Remember stores a measured travel lead for a location
func (s *TravelService) Remember(where string, lead time.Duration) {
	if key := travelKey(where); key != "" && lead > 0 {
		s.cache.Set(key, lead, cache.DefaultExpiration)
	}
}
