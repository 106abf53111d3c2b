// Package status aggregates diagnostic checks into status reports.
//
// A request flows through four stages. Checks are listed from a Source and
// those named in the excludedchecks setting are dropped before any result is
// computed. Each remaining check is evaluated once by a Normalizer, which
// isolates panics and errors so a failing check is omitted instead of
// failing the request. The resulting statuses are tallied and reduced to an
// overall verdict where critical beats error beats warning, and warnings
// still count as healthy. Finally the tally is assembled into a
// DetailedResponse or SimpleResponse.
//
// The simple report covers only status and security checks and stops
// evaluating at the first critical result.
//
// Aggregator implements the pipeline; CachedAggregator adds response caching
// controlled by the enablecaching and cachettl settings; RegisterHandlers
// exposes both over HTTP.
package status
