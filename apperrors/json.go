package apperrors

import "encoding/json"

// Flattened is the flat, JSON-safe shape of an AppError.  It is the
// documented hand-off contract for log transports: no nesting, no circular
// references, no payloads that cannot be serialized.  The cause chain is
// flattened to messages only, immediate cause first.
type Flattened struct {
	Code       Kind           `json:"code"`
	Message    string         `json:"message"`
	Context    map[string]any `json:"context"`
	CauseChain []string       `json:"causeChain"`
}

// Flat produces the flattened form of e.  Context and CauseChain are always
// non-nil so they serialize as {} and [] rather than null.  The chain walks
// AppError causes by message; the first external cause is recorded with its
// full Error() text and ends the walk, since an external error already folds
// its own chain into that text.
func (e *AppError) Flat() Flattened {
	chain := make([]string, 0)
	for cause := e.cause; cause != nil; {
		app, ok := cause.(*AppError)
		if !ok {
			chain = append(chain, cause.Error())
			break
		}
		chain = append(chain, app.message)
		cause = app.cause
	}

	return Flattened{
		Code:       e.kind,
		Message:    e.message,
		Context:    e.Context(),
		CauseChain: chain,
	}
}

// MarshalJSON serializes the flattened form.  Map keys are emitted in sorted
// order by encoding/json, so output is deterministic.
func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Flat())
}
