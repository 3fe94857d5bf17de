package failures

// Scope names the smallest unit a failure was contained to.
type Scope string

const (
	ScopeAsset Scope = "asset"
	ScopeDate  Scope = "date"
	ScopeField Scope = "field"
)

// Skip records a unit of work that was abandoned instead of aborting the run.
type Skip struct {
	Scope   Scope
	Kind    string
	Field   string
	Date    string
	Source  string
	Message string
}

// NewSkip classifies err and captures its message.
func NewSkip(scope Scope, field, date, source string, err error) Skip {
	skip := Skip{
		Scope:  scope,
		Kind:   KindOf(err),
		Field:  field,
		Date:   date,
		Source: source,
	}
	if err != nil {
		skip.Message = err.Error()
	}
	return skip
}
