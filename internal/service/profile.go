package service

import (
	"time"

	"github.com/ezapply/ezapply/internal/model"
	"github.com/ezapply/ezapply/internal/repository"
	"github.com/ezapply/ezapply/internal/stats"
)

// ProfileStats is the dashboard snapshot computed from a profile's counters.
// Rates are percentages rounded by the stats package rules.
type ProfileStats struct {
	Applications    int     `json:"applications"`
	Interviews      int     `json:"interviews"`
	Offers          int     `json:"offers"`
	InterviewRate   float64 `json:"interview_rate"`
	OfferRate       float64 `json:"offer_rate"`
	ConversionRate  float64 `json:"conversion_rate"`
	ConversionScore float64 `json:"conversion_score"`
	StreakDays      int     `json:"streak_days"`
}

type ProfileService struct {
	profileRepository repository.ProfileRepository
}

func NewProfileService(profileRepository repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepository: profileRepository,
	}
}

func (s *ProfileService) ByID(id string) (*model.Profile, error) {
	return s.profileRepository.ByID(id)
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepository.ByUserID(userID)
}

// Stats derives the dashboard numbers from the profile counters. StreakDays
// counts whole days since the counters were last touched.
func (s *ProfileService) Stats(profile *model.Profile, now time.Time) ProfileStats {
	streak := int(now.Sub(profile.LastReset).Hours() / 24)
	if streak < 0 {
		streak = 0
	}

	return ProfileStats{
		Applications:    profile.Applications,
		Interviews:      profile.Interviews,
		Offers:          profile.Offers,
		InterviewRate:   stats.BasicConversionRate(profile.Applications, profile.Interviews),
		OfferRate:       stats.BasicConversionRate(profile.Applications, profile.Offers),
		ConversionRate:  stats.ConversionRate(profile.Applications, profile.Interviews, profile.Offers),
		ConversionScore: stats.ConversionScore(profile.Applications, profile.Interviews, profile.Offers),
		StreakDays:      streak,
	}
}
