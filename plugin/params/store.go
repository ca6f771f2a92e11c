package params

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownParameter is returned when an id is not registered.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrParameterType is returned when a typed lookup finds another kind.
	ErrParameterType = errors.New("parameter type mismatch")

	errDuplicateParameter = errors.New("duplicate parameter")
)

// Change announces a new plain value for one parameter.
type Change struct {
	ID    ID
	Value float64
}

// Store is a fixed registry of parameters. The set of parameters is
// immutable after construction; their values are not.
type Store struct {
	params map[ID]Parameter
	order  []ID

	mu   sync.Mutex
	subs map[chan Change]struct{}
}

// NewStore registers params in order. Ids must be unique.
func NewStore(params ...Parameter) (*Store, error) {
	s := &Store{
		params: make(map[ID]Parameter, len(params)),
		order:  make([]ID, 0, len(params)),
		subs:   make(map[chan Change]struct{}),
	}
	for _, p := range params {
		if p == nil {
			return nil, errors.New("nil parameter")
		}
		if _, exists := s.params[p.ID()]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateParameter, p.ID())
		}
		s.params[p.ID()] = p
		s.order = append(s.order, p.ID())
	}
	for _, p := range params {
		p.attach(s)
	}
	return s, nil
}

// Lookup returns the parameter registered under id.
func (s *Store) Lookup(id ID) (Parameter, error) {
	p, ok := s.params[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	return p, nil
}

// Float returns the FloatParam registered under id.
func (s *Store) Float(id ID) (*FloatParam, error) {
	p, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	f, ok := p.(*FloatParam)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want float", ErrParameterType, id, p.Kind())
	}
	return f, nil
}

// Bool returns the BoolParam registered under id.
func (s *Store) Bool(id ID) (*BoolParam, error) {
	p, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	b, ok := p.(*BoolParam)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want bool", ErrParameterType, id, p.Kind())
	}
	return b, nil
}

// Choice returns the ChoiceParam registered under id.
func (s *Store) Choice(id ID) (*ChoiceParam, error) {
	p, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	c, ok := p.(*ChoiceParam)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want choice", ErrParameterType, id, p.Kind())
	}
	return c, nil
}

// Params returns all parameters in registration order.
func (s *Store) Params() []Parameter {
	out := make([]Parameter, len(s.order))
	for i, id := range s.order {
		out[i] = s.params[id]
	}
	return out
}

// Set assigns a plain value to the parameter registered under id.
func (s *Store) Set(id ID, v float64) error {
	p, err := s.Lookup(id)
	if err != nil {
		return err
	}
	p.SetValue(v)
	return nil
}

// ResetToDefaults restores every parameter's default value.
func (s *Store) ResetToDefaults() {
	for _, id := range s.order {
		p := s.params[id]
		p.SetValue(p.DefaultValue())
	}
}

// Subscribe returns a queue receiving every subsequent change and a
// function that ends the subscription and closes the queue. Changes are
// dropped for a subscriber whose queue is full; the setter never blocks.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
