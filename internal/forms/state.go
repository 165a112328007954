package forms

// FieldStatus describes where a field is in its validation lifecycle.
type FieldStatus string

const (
	// StatusPristine means the field has never been validated.
	StatusPristine FieldStatus = "pristine"
	// StatusPending means an async rule is running for the field.
	StatusPending FieldStatus = "pending"
	// StatusValid means the last validation passed.
	StatusValid FieldStatus = "valid"
	// StatusInvalid means the last validation failed.
	StatusInvalid FieldStatus = "invalid"
)

// FieldState tracks one rule-bound field. Owned by the Form it belongs to
// and destroyed with it.
type FieldState struct {
	Status  FieldStatus
	Message string
	Touched bool
}

// Field is the capability interface a UI toolkit implements per bound
// field. The engine drives visual state through it and never touches the
// toolkit directly.
type Field interface {
	// Name returns the field's binding name.
	Name() string

	// Value returns the field's current content.
	Value() string

	// MarkInvalid applies the error visual state and associates message
	// with the field. Implementations create the message container on
	// demand and reuse it on repeat calls.
	MarkInvalid(message string)

	// MarkValid applies the success visual state.
	MarkValid()

	// ClearValidation removes any validation visual state.
	ClearValidation()

	// Focus moves keyboard focus to the field.
	Focus()
}
