package stats

// BasicConversionRate returns the percentage of applications that turned into
// interviews (or offers). Returns 0 when either count is 0, guarding against
// division by zero. Negative inputs are the caller's problem.
func BasicConversionRate(applications, interviewsOrOffers int) float64 {
	if interviewsOrOffers > 0 && applications > 0 {
		return float64(interviewsOrOffers) / float64(applications) * 100
	}
	return 0
}

// ConversionRate returns the percentage of applications that turned into
// either an interview or an offer.
func ConversionRate(applications, interviews, offers int) float64 {
	if interviews+offers > 0 && applications > 0 {
		return float64(interviews+offers) / float64(applications) * 100
	}
	return 0
}

// ConversionScore is ConversionRate with offers weighted double.
func ConversionScore(applications, interviews, offers int) float64 {
	if interviews+offers > 0 && applications > 0 {
		return float64(interviews+offers*2) / float64(applications) * 100
	}
	return 0
}
