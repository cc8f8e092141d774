package codec

import "github.com/digitalabcs/textdecoder/internal/models"

// Enumerations are persisted as small integers. The zero value of each
// mapping is the documented default variant, so an unknown or missing
// value always decodes to that default instead of failing.

const (
	statusDraft = iota
	statusSpeakersIdentified
	statusSpeakersVerified
	statusAnalyzing
	statusAnalyzed
	statusError
)

func encodeStatus(s models.ConversationStatus) int {
	switch s {
	case models.StatusSpeakersIdentified:
		return statusSpeakersIdentified
	case models.StatusSpeakersVerified:
		return statusSpeakersVerified
	case models.StatusAnalyzing:
		return statusAnalyzing
	case models.StatusAnalyzed:
		return statusAnalyzed
	case models.StatusError:
		return statusError
	default:
		return statusDraft
	}
}

func decodeStatus(v int) models.ConversationStatus {
	switch v {
	case statusSpeakersIdentified:
		return models.StatusSpeakersIdentified
	case statusSpeakersVerified:
		return models.StatusSpeakersVerified
	case statusAnalyzing:
		return models.StatusAnalyzing
	case statusAnalyzed:
		return models.StatusAnalyzed
	case statusError:
		return models.StatusError
	default:
		return models.StatusDraft
	}
}

const (
	frequencyRare = iota
	frequencyOccasional
	frequencyFrequent
)

func encodeFrequency(f models.Frequency) int {
	switch f {
	case models.FrequencyOccasional:
		return frequencyOccasional
	case models.FrequencyFrequent:
		return frequencyFrequent
	default:
		return frequencyRare
	}
}

func decodeFrequency(v int) models.Frequency {
	switch v {
	case frequencyOccasional:
		return models.FrequencyOccasional
	case frequencyFrequent:
		return models.FrequencyFrequent
	default:
		return models.FrequencyRare
	}
}

const (
	impactNeutral = iota
	impactPositive
	impactNegative
)

func encodeImpact(i models.BehaviorImpact) int {
	switch i {
	case models.ImpactPositive:
		return impactPositive
	case models.ImpactNegative:
		return impactNegative
	default:
		return impactNeutral
	}
}

func decodeImpact(v int) models.BehaviorImpact {
	switch v {
	case impactPositive:
		return models.ImpactPositive
	case impactNegative:
		return models.ImpactNegative
	default:
		return models.ImpactNeutral
	}
}

const (
	severityNone = iota
	severityMild
	severityModerate
	severitySevere
)

func encodeSeverity(s models.Severity) int {
	switch s {
	case models.SeverityMild:
		return severityMild
	case models.SeverityModerate:
		return severityModerate
	case models.SeveritySevere:
		return severitySevere
	default:
		return severityNone
	}
}

func decodeSeverity(v int) models.Severity {
	switch v {
	case severityMild:
		return models.SeverityMild
	case severityModerate:
		return models.SeverityModerate
	case severitySevere:
		return models.SeveritySevere
	default:
		return models.SeverityNone
	}
}
