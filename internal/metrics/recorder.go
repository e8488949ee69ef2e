package metrics

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultRejected ResultLabel = "rejected"
	ResultInvalid  ResultLabel = "invalid"
)

// Operation names used as the "operation" label.
const (
	OpCheckIn  = "check_in"
	OpCheckOut = "check_out"
)

// Recorder defines observability hooks for registry operations.
type Recorder interface {
	IncOperation(operation string, result ResultLabel)
	SetOccupancy(available, occupied int)
	IncPersistFailure()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncOperation(string, ResultLabel) {}
func (NoopRecorder) SetOccupancy(int, int)            {}
func (NoopRecorder) IncPersistFailure()               {}
