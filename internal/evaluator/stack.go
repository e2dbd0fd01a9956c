package evaluator

import "fmt"

// Stack holds every live value slot. Frames mark where each call's slots
// begin; popping a frame releases them all.
type Stack struct {
	values []Value
	frames []int
}

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) PushFrame() {
	s.frames = append(s.frames, len(s.values))
}

// PopFrame drops the slots of the innermost frame. The root frame is never
// popped.
func (s *Stack) PopFrame() {
	if len(s.frames) == 0 {
		return
	}
	base := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	for i := base; i < len(s.values); i++ {
		s.values[i] = nil
	}
	s.values = s.values[:base]
}

// Push stores v in a new slot of the current frame and returns its address.
func (s *Stack) Push(v Value) int {
	s.values = append(s.values, v)
	return len(s.values) - 1
}

func (s *Stack) Get(sp int) (Value, error) {
	if sp < 0 || sp >= len(s.values) {
		return nil, fmt.Errorf("slot %d is outside the stack (size %d)", sp, len(s.values))
	}
	return s.values[sp], nil
}

// Set overwrites slot sp. A slot holding a Ref is written through, so the
// new value is visible to every holder of the ref.
func (s *Stack) Set(sp int, v Value) error {
	if sp < 0 || sp >= len(s.values) {
		return fmt.Errorf("slot %d is outside the stack (size %d)", sp, len(s.values))
	}
	v = Deref(v)
	if r, ok := s.values[sp].(*Ref); ok {
		r.Value = v
		return nil
	}
	s.values[sp] = v
	return nil
}

// Box moves the value of slot sp into a Ref, leaves the Ref in the slot and
// returns it. A slot that already holds a Ref is returned as is.
func (s *Stack) Box(sp int) (*Ref, error) {
	if sp < 0 || sp >= len(s.values) {
		return nil, fmt.Errorf("slot %d is outside the stack (size %d)", sp, len(s.values))
	}
	if r, ok := s.values[sp].(*Ref); ok {
		return r, nil
	}
	r := &Ref{Value: s.values[sp]}
	s.values[sp] = r
	return r, nil
}

// Len is the number of live slots.
func (s *Stack) Len() int { return len(s.values) }

// Depth is the number of open frames above the root.
func (s *Stack) Depth() int { return len(s.frames) }
