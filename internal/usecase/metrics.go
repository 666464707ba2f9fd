package usecase

import "time"

// Recorder receives service outcomes for metrics. Implementations must be safe
// for concurrent use.
type Recorder interface {
	ObserveResolve(outcome, reason string)
	ObserveReviewResolved(status string)
	ObserveMerge(provider string, updatedFields, conflicts int)
	ObserveAppearances(stored, dropped int)
	ObserveRatingRun(dryRun bool, ratings, failedWrites int, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveResolve(string, string) {}
func (noopRecorder) ObserveReviewResolved(string) {}
func (noopRecorder) ObserveMerge(string, int, int) {}
func (noopRecorder) ObserveAppearances(int, int) {}
func (noopRecorder) ObserveRatingRun(bool, int, int, time.Duration) {}

func NewNoopRecorder() Recorder {
	return noopRecorder{}
}
