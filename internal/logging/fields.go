package logging

// Shared attribute keys so log lines stay greppable across components.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldRequestID = "request_id"
	FieldRequestor = "requestor"
	FieldTitle     = "title"
)
