package kernel

import "github.com/joeycumines/kerncore/klog"

// Policy selects the scheduling discipline used by a [Scheduler].
type Policy int

const (
	// PolicyDonation is the default round-robin-with-priority-donation
	// scheduler: threads run in strict priority order, SetPriority takes
	// effect immediately, and locks propagate priority donation to their
	// holder (and transitively, to whatever that holder is itself waiting
	// on).
	PolicyDonation Policy = iota

	// PolicyMLFQS selects the 4.4BSD multilevel feedback queue scheduler.
	// Thread priority is recomputed automatically from recent CPU usage
	// and niceness; [Scheduler.SetPriority] becomes a no-op, and
	// [Lock.Acquire] no longer donates priority.
	PolicyMLFQS
)

func (p Policy) String() string {
	switch p {
	case PolicyDonation:
		return "donation"
	case PolicyMLFQS:
		return "mlfqs"
	default:
		return "unknown"
	}
}

// Priority bounds, matching the original kernel's PRI_MIN/PRI_DEFAULT/PRI_MAX.
const (
	PriMin     = 0
	PriDefault = 31
	PriMax     = 63
)

// Nice bounds for the MLFQS policy.
const (
	NiceMin     = -20
	NiceDefault = 0
	NiceMax     = 20
)

// DefaultTimeSlice is the default number of timer ticks given to each
// thread before it is forced to yield.
const DefaultTimeSlice = 4

// DefaultTimerFreq is the default simulated timer interrupt frequency, in ticks
// per second of simulated time.
const DefaultTimerFreq = 100

// Config configures a [Scheduler]. The zero value is not valid; pass it
// through [Config.WithDefaults] or simply call [New], which applies
// defaults itself.
type Config struct {
	// Policy selects the scheduling discipline. Zero value is
	// PolicyDonation.
	Policy Policy

	// TimerFreq is the number of simulated timer ticks per second. Must be
	// in [19, 1000] once defaulted, matching the 8254 PIT's real range.
	TimerFreq int

	// TimeSlice is the number of timer ticks given to a thread before
	// preemption is requested.
	TimeSlice int

	// MaxThreads bounds the number of simultaneously live threads,
	// standing in for the fixed-size thread table of a real kernel.
	// Zero means unbounded.
	MaxThreads int

	// Logger receives structured scheduler events (thread creation,
	// blocking, priority donation, MLFQS recomputation). A nil Logger
	// disables logging.
	Logger *klog.Logger
}

// WithDefaults returns a copy of c with zero-valued fields replaced by
// their defaults.
func (c Config) WithDefaults() Config {
	if c.TimerFreq == 0 {
		c.TimerFreq = DefaultTimerFreq
	}
	if c.TimeSlice == 0 {
		c.TimeSlice = DefaultTimeSlice
	}
	if c.Logger == nil {
		c.Logger = klog.Nop()
	}
	return c
}

func (c Config) validate() error {
	if c.TimerFreq < 19 || c.TimerFreq > 1000 {
		return errConfig("TimerFreq must be in [19, 1000]")
	}
	if c.TimeSlice < 1 {
		return errConfig("TimeSlice must be >= 1")
	}
	if c.MaxThreads < 0 {
		return errConfig("MaxThreads must be >= 0")
	}
	if c.Policy != PolicyDonation && c.Policy != PolicyMLFQS {
		return errConfig("unknown Policy")
	}
	return nil
}

type configError string

func (e configError) Error() string { return "kernel: invalid config: " + string(e) }

func errConfig(msg string) error { return configError(msg) }
