package status

// Tally counts normalized checks per status.
// Total always equals the sum of the per-status buckets.
type Tally struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warning  int `json:"warning"`
	Error    int `json:"error"`
	Critical int `json:"critical"`
	Info     int `json:"info"`
	Unknown  int `json:"unknown"`
}

// Add counts one status. Values outside the known set count as unknown.
func (t *Tally) Add(s Status) {
	t.Total++
	switch s.Canonical() {
	case StatusOK:
		t.OK++
	case StatusWarning:
		t.Warning++
	case StatusError:
		t.Error++
	case StatusCritical:
		t.Critical++
	case StatusInfo:
		t.Info++
	default:
		t.Unknown++
	}
}

// Count returns the bucket for s.
func (t Tally) Count(s Status) int {
	switch s.Canonical() {
	case StatusOK:
		return t.OK
	case StatusWarning:
		return t.Warning
	case StatusError:
		return t.Error
	case StatusCritical:
		return t.Critical
	case StatusInfo:
		return t.Info
	default:
		return t.Unknown
	}
}

// Health derives the overall verdict from the counts.
func (t Tally) Health() OverallHealth {
	return verdict{
		critical: t.Critical > 0,
		errored:  t.Error > 0,
		warned:   t.Warning > 0,
	}.health()
}

// OverallHealth is the worst-case verdict over a set of statuses.
// Label is one of ok, warning, error or critical.
type OverallHealth struct {
	Label   Status
	Healthy bool
}

// Reduce tallies every status and derives the overall verdict.
func Reduce(statuses []Status) (Tally, OverallHealth) {
	var t Tally
	for _, s := range statuses {
		t.Add(s)
	}
	return t, t.Health()
}

// Verdict computes the overall verdict, stopping at the first critical.
func Verdict(statuses []Status) OverallHealth {
	var v verdict
	for _, s := range statuses {
		if v.observe(s) {
			break
		}
	}
	return v.health()
}

// verdict accumulates the severities that decide overall health.
// Precedence: critical > error > warning > everything else.
type verdict struct {
	critical bool
	errored  bool
	warned   bool
}

// observe records s and reports whether the verdict can no longer change.
func (v *verdict) observe(s Status) bool {
	switch s.Canonical() {
	case StatusCritical:
		v.critical = true
	case StatusError:
		v.errored = true
	case StatusWarning:
		v.warned = true
	}
	return v.critical
}

// Warnings leave the system healthy; errors and criticals do not.
func (v verdict) health() OverallHealth {
	switch {
	case v.critical:
		return OverallHealth{Label: StatusCritical, Healthy: false}
	case v.errored:
		return OverallHealth{Label: StatusError, Healthy: false}
	case v.warned:
		return OverallHealth{Label: StatusWarning, Healthy: true}
	default:
		return OverallHealth{Label: StatusOK, Healthy: true}
	}
}
