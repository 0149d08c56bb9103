package rollcall

// Kind classifies a notice for the operator.
type Kind int

const (
	// KindInfo is a non-blocking, recoverable message.
	KindInfo Kind = iota
	KindSuccess
	// KindError ends the current workflow run.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	}
	return "info"
}

// Notice is a message for whoever operates the kiosk.
type Notice struct {
	Kind    Kind
	Message string
}

type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Notices collects everything it is told.
type Notices []Notice

func (ns *Notices) Notify(n Notice) { *ns = append(*ns, n) }

// Last returns the most recent notice, or a zero Notice.
func (ns Notices) Last() Notice {
	if len(ns) == 0 {
		return Notice{}
	}
	return ns[len(ns)-1]
}
