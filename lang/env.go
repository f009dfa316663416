package lang

// frame holds the bindings of one scope. Names are kept in declaration
// order for snapshots.
type frame struct {
	names  []string
	values map[string]Value
}

func newFrame() *frame {
	return &frame{values: make(map[string]Value)}
}

func (f *frame) set(name string, val Value) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = val
}

// Environment is a stack of frames. The bottom frame is the global scope
// and is never popped.
type Environment struct {
	frames []*frame
}

// NewEnvironment creates an environment whose global frame holds the
// builtins.
func NewEnvironment() *Environment {
	env := &Environment{frames: []*frame{newFrame()}}
	installBuiltins(env)
	return env
}

// Push enters a new innermost scope.
func (e *Environment) Push() {
	e.frames = append(e.frames, newFrame())
}

// Pop leaves the innermost scope.
func (e *Environment) Pop() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// Scoped runs fn inside a fresh scope that is popped however fn returns.
func (e *Environment) Scoped(fn func() error) error {
	e.Push()
	defer e.Pop()
	return fn()
}

// Depth returns the number of frames, including the global one.
func (e *Environment) Depth() int {
	return len(e.frames)
}

func (e *Environment) innermost() *frame {
	return e.frames[len(e.frames)-1]
}

// Declare binds name in the innermost frame. Declaring a name twice in the
// same frame is an error; shadowing an outer frame is not.
func (e *Environment) Declare(name string, val Value) error {
	f := e.innermost()
	if _, ok := f.values[name]; ok {
		return newError(VariableRedefinition, name)
	}
	f.set(name, val)
	return nil
}

// Define binds name in the innermost frame, replacing any binding there.
func (e *Environment) Define(name string, val Value) {
	e.innermost().set(name, val)
}

// Assign updates the innermost existing binding of name.
func (e *Environment) Assign(name string, val Value) error {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i].values[name]; ok {
			e.frames[i].values[name] = val
			return nil
		}
	}
	return newError(VariableDoesNotExist, name)
}

// Lookup finds name, searching from the innermost frame outwards.
func (e *Environment) Lookup(name string) (Value, error) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if val, ok := e.frames[i].values[name]; ok {
			return val, nil
		}
	}
	return Value{}, newError(VariableDoesNotExist, name)
}

// Binding is one variable as it appears in a snapshot.
type Binding struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// FrameSnapshot is the content of one frame.
type FrameSnapshot struct {
	Depth    int       `yaml:"depth"`
	Bindings []Binding `yaml:"bindings"`
}

// Snapshot copies every frame, outermost first, with bindings in
// declaration order.
func (e *Environment) Snapshot() []FrameSnapshot {
	snaps := make([]FrameSnapshot, len(e.frames))
	for depth, f := range e.frames {
		bindings := make([]Binding, 0, len(f.names))
		for _, name := range f.names {
			val := f.values[name]
			bindings = append(bindings, Binding{
				Name:  name,
				Type:  val.Type.String(),
				Value: val.String(),
			})
		}
		snaps[depth] = FrameSnapshot{Depth: depth, Bindings: bindings}
	}
	return snaps
}
