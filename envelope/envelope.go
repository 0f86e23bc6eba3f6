// Package envelope shapes every API reply into the uniform
// {status, success, result|error} structure.
package envelope

// Envelope is the JSON body returned to clients.
type Envelope map[string]any

// Reserved keys that additional fields may not overwrite.
const (
	KeyStatus  = "status"
	KeySuccess = "success"
	KeyResult  = "result"
	KeyError   = "error"
)

// Message is the shape a plain string result is wrapped into.
type Message struct {
	Message string `json:"message"`
}

// Format builds the envelope for result and status. Statuses in [200,300)
// put result under "result" with success=true; anything else puts it under
// "error" with success=false. A string result is wrapped as {"message": ...}.
// Additional fields are merged at the top level without replacing the
// reserved keys.
func Format(result any, status int, additional map[string]any) Envelope {
	env := make(Envelope, len(additional)+3)
	for k, v := range additional {
		switch k {
		case KeyStatus, KeySuccess, KeyResult, KeyError:
			continue
		}
		env[k] = v
	}

	if s, ok := result.(string); ok {
		result = Message{Message: s}
	}

	success := status >= 200 && status < 300
	env[KeyStatus] = status
	env[KeySuccess] = success
	if success {
		env[KeyResult] = result
	} else {
		env[KeyError] = result
	}
	return env
}

// Status returns the status code stored in env, or 0 if absent.
func (e Envelope) Status() int {
	switch v := e[KeyStatus].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Success reports the success flag stored in env.
func (e Envelope) Success() bool {
	ok, _ := e[KeySuccess].(bool)
	return ok
}
