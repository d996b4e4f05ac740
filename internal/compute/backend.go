package compute

// Backend executes a sweep over row ranges. Implementations must call fn
// for every row in [0, rows) exactly once and return only after all calls finish.
type Backend interface {
	Name() string
	Available() bool
	Workers() int
	ForRows(rows int, fn func(start, end int))
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	cpu := NewCPUBackend()
	if cpu.Workers() > 1 {
		return cpu
	}
	return NewSerialBackend()
}

// ByName returns a fresh backend for "serial" or "cpu"; anything else auto-selects.
func ByName(name string) Backend {
	switch name {
	case "serial":
		return NewSerialBackend()
	case "cpu", "parallel":
		return NewCPUBackend()
	}
	return AutoSelectBackend()
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Workers() int    { return 1 }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) ForRows(rows int, fn func(start, end int)) {
	if rows > 0 {
		fn(0, rows)
	}
}
