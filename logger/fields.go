package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldURL       = "url"
	FieldAttempt   = "attempt"
	FieldEventID   = "event_id"
	FieldEventType = "event_type"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("Message received", logger.Fields("session_id", pid, "bytes", n))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	fields := map[string]interface{}{FieldOperation: op}
	if err != nil {
		fields[FieldError] = err.Error()
	}
	return fields
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields[FieldError] = err.Error()
	}
	return fields
}
