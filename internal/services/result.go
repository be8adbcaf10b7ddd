package services

// FailureKind classifies why an operation failed, so the HTTP layer can pick
// a status code without inspecting user-facing messages.
type FailureKind int

const (
	FailNone FailureKind = iota
	FailValidation
	FailNotFound
	FailConflict
	FailProvider
	FailInternal
)

// Result is the uniform envelope every service operation returns. Controllers
// map it onto HTTP without ever seeing transport or driver errors.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Count   int         `json:"count,omitempty"`
	Message string      `json:"message"`

	Kind FailureKind `json:"-"`
}

func ok(data interface{}, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

func okCount(data interface{}, count int, message string) Result {
	return Result{Success: true, Data: data, Count: count, Message: message}
}

func fail(message string, errs ...string) Result {
	return Result{Success: false, Errors: errs, Message: message, Kind: FailValidation}
}

func failNotFound(message string) Result {
	return Result{Success: false, Message: message, Kind: FailNotFound}
}

func failConflict(message string) Result {
	return Result{Success: false, Message: message, Kind: FailConflict}
}

func failProvider(message string) Result {
	return Result{Success: false, Message: message, Kind: FailProvider}
}

func failInternal(message string) Result {
	return Result{Success: false, Message: message, Kind: FailInternal}
}
