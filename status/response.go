package status

import "time"

// Platform describes the host the checks run on. Both values are passed
// through to responses uninterpreted.
type Platform struct {
	Version string
	Release string
}

// DetailedResponse is the full status report.
type DetailedResponse struct {
	Summary         Tally             `json:"summary"`
	Checks          []NormalizedCheck `json:"checks"`
	Timestamp       int64             `json:"timestamp"`
	PlatformVersion string            `json:"platform_version"`
	PlatformRelease string            `json:"platform_release"`
}

// SimpleResponse is the boolean health report.
type SimpleResponse struct {
	Healthy   bool   `json:"healthy"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// AssembleDetailed builds a DetailedResponse stamped with now.
func AssembleDetailed(tally Tally, checks []NormalizedCheck, now time.Time, platform Platform) DetailedResponse {
	if checks == nil {
		checks = []NormalizedCheck{}
	}
	return DetailedResponse{
		Summary:         tally,
		Checks:          checks,
		Timestamp:       now.Unix(),
		PlatformVersion: platform.Version,
		PlatformRelease: platform.Release,
	}
}

// AssembleSimple builds a SimpleResponse stamped with now.
func AssembleSimple(health OverallHealth, now time.Time) SimpleResponse {
	return SimpleResponse{
		Healthy:   health.Healthy,
		Status:    health.Label.String(),
		Timestamp: now.Unix(),
	}
}
