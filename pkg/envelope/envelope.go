package envelope

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is the toast the browser shows alongside a response.
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Envelope is the {success, message, data} wrapper used by the upstream API
// for every response. The console reuses it for its own responses and may
// attach a Notice.
type Envelope[T any] struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    T       `json:"data"`
	Notice  *Notice `json:"notice,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// Fail builds a failed envelope carrying message and an error notice.
func Fail(message string) Envelope[any] {
	return Envelope[any]{
		Success: false,
		Message: message,
		Notice:  Error(message),
	}
}

// WithNotice returns a copy of e carrying n.
func (e Envelope[T]) WithNotice(n *Notice) Envelope[T] {
	e.Notice = n
	if e.Message == "" && n != nil {
		e.Message = n.Message
	}
	return e
}

func Success(message string) *Notice {
	return &Notice{Level: LevelSuccess, Title: "Success", Message: message}
}

func Info(message string) *Notice {
	return &Notice{Level: LevelInfo, Title: "Info", Message: message}
}

func Warning(message string) *Notice {
	return &Notice{Level: LevelWarning, Title: "Warning", Message: message}
}

func Error(message string) *Notice {
	return &Notice{Level: LevelError, Title: "Error", Message: message}
}

// Titled returns a copy of n with a custom title.
func (n *Notice) Titled(title string) *Notice {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Title = title
	return &cp
}
