package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// ID is a stable parameter identifier, used for lookup and persisted state.
type ID string

// Parameter identifiers of the delay effect.
const (
	GainID      ID = "gain"
	DelayTimeID ID = "delayTime"
	MixID       ID = "mix"
	FeedbackID  ID = "feedback"
	StereoID    ID = "stereo"
	LowCutID    ID = "lowCut"
	HighCutID   ID = "highCut"
	TempoSyncID ID = "tempoSync"
	DelayNoteID ID = "delayNote"
)

// Kind is the value type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Parameter is the type-independent view of a stored parameter.
type Parameter interface {
	ID() ID
	Name() string
	Kind() Kind

	// Value returns the plain value; bools are 0 or 1, choices the index.
	Value() float64
	SetValue(v float64)
	DefaultValue() float64

	Normalized() float64
	SetNormalized(p float64)

	Text() string
	SetText(s string) error

	attach(s *Store)
}

type base struct {
	id    ID
	name  string
	store atomic.Pointer[Store]
}

func (b *base) ID() ID          { return b.id }
func (b *base) Name() string    { return b.name }
func (b *base) attach(s *Store) { b.store.Store(s) }

func (b *base) notify(v float64) {
	if s := b.store.Load(); s != nil {
		s.publish(Change{ID: b.id, Value: v})
	}
}

// FloatParam is a continuous (or stepped) ranged parameter.
type FloatParam struct {
	base
	rng      Range
	def      float64
	bits     atomic.Uint64
	toText   func(float64) string
	fromText func(string) float64
}

// FloatOption customises a FloatParam.
type FloatOption func(*FloatParam)

// WithFormatter sets the value-to-text function.
func WithFormatter(fn func(float64) string) FloatOption {
	return func(p *FloatParam) {
		if fn != nil {
			p.toText = fn
		}
	}
}

// WithParser sets the text-to-value function.
func WithParser(fn func(string) float64) FloatOption {
	return func(p *FloatParam) {
		if fn != nil {
			p.fromText = fn
		}
	}
}

// NewFloat returns a ranged parameter initialised to def.
func NewFloat(id ID, name string, rng Range, def float64, opts ...FloatOption) (*FloatParam, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter id must not be empty")
	}
	if err := rng.validate(); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", id, err)
	}
	if def < rng.Min || def > rng.Max || math.IsNaN(def) {
		return nil, fmt.Errorf("parameter %q default must be in [%g, %g]: %g", id, rng.Min, rng.Max, def)
	}

	p := &FloatParam{
		base:     base{id: id, name: name},
		rng:      rng,
		def:      rng.Legal(def),
		toText:   func(v float64) string { return fmt.Sprintf("%g", v) },
		fromText: leadingFloat,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.bits.Store(math.Float64bits(p.def))
	return p, nil
}

// Kind implements Parameter.
func (p *FloatParam) Kind() Kind { return KindFloat }

// Range returns the value range.
func (p *FloatParam) Range() Range { return p.rng }

// Get returns the plain value. Safe on the audio thread.
func (p *FloatParam) Get() float64 { return math.Float64frombits(p.bits.Load()) }

// Set stores a legal version of v and announces the change.
func (p *FloatParam) Set(v float64) {
	v = p.rng.Legal(v)
	if old := p.bits.Swap(math.Float64bits(v)); old != math.Float64bits(v) {
		p.notify(v)
	}
}

// Value implements Parameter.
func (p *FloatParam) Value() float64 { return p.Get() }

// SetValue implements Parameter.
func (p *FloatParam) SetValue(v float64) { p.Set(v) }

// DefaultValue implements Parameter.
func (p *FloatParam) DefaultValue() float64 { return p.def }

// Normalized implements Parameter.
func (p *FloatParam) Normalized() float64 { return p.rng.Normalize(p.Get()) }

// SetNormalized implements Parameter.
func (p *FloatParam) SetNormalized(n float64) { p.Set(p.rng.Denormalize(n)) }

// Text implements Parameter.
func (p *FloatParam) Text() string { return p.toText(p.Get()) }

// SetText implements Parameter.
func (p *FloatParam) SetText(s string) error {
	v := p.fromText(s)
	if math.IsNaN(v) {
		return fmt.Errorf("parameter %q: cannot parse %q", p.id, s)
	}
	p.Set(v)
	return nil
}

// BoolParam is an on/off parameter.
type BoolParam struct {
	base
	def bool
	v   atomic.Bool
}

// NewBool returns a switch parameter initialised to def.
func NewBool(id ID, name string, def bool) (*BoolParam, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter id must not be empty")
	}
	p := &BoolParam{base: base{id: id, name: name}, def: def}
	p.v.Store(def)
	return p, nil
}

// Kind implements Parameter.
func (p *BoolParam) Kind() Kind { return KindBool }

// Get returns the state. Safe on the audio thread.
func (p *BoolParam) Get() bool { return p.v.Load() }

// Set stores the state and announces the change.
func (p *BoolParam) Set(on bool) {
	if p.v.Swap(on) != on {
		p.notify(boolValue(on))
	}
}

// Value implements Parameter.
func (p *BoolParam) Value() float64 { return boolValue(p.Get()) }

// SetValue implements Parameter; values >= 0.5 are on.
func (p *BoolParam) SetValue(v float64) { p.Set(v >= 0.5) }

// DefaultValue implements Parameter.
func (p *BoolParam) DefaultValue() float64 { return boolValue(p.def) }

// Normalized implements Parameter.
func (p *BoolParam) Normalized() float64 { return p.Value() }

// SetNormalized implements Parameter.
func (p *BoolParam) SetNormalized(n float64) { p.SetValue(n) }

// Text implements Parameter.
func (p *BoolParam) Text() string {
	if p.Get() {
		return "On"
	}
	return "Off"
}

// SetText implements Parameter.
func (p *BoolParam) SetText(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		p.Set(true)
	case "off", "false", "no", "0":
		p.Set(false)
	default:
		return fmt.Errorf("parameter %q: cannot parse %q", p.id, s)
	}
	return nil
}

func boolValue(on bool) float64 {
	if on {
		return 1
	}
	return 0
}

// ChoiceParam selects one of a fixed list of names.
type ChoiceParam struct {
	base
	choices []string
	def     int
	index   atomic.Int64
}

// NewChoice returns a choice parameter initialised to def.
func NewChoice(id ID, name string, choices []string, def int) (*ChoiceParam, error) {
	if id == "" {
		return nil, fmt.Errorf("parameter id must not be empty")
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf("parameter %q needs at least one choice", id)
	}
	if def < 0 || def >= len(choices) {
		return nil, fmt.Errorf("parameter %q default must be in [0, %d]: %d", id, len(choices)-1, def)
	}
	p := &ChoiceParam{
		base:    base{id: id, name: name},
		choices: append([]string(nil), choices...),
		def:     def,
	}
	p.index.Store(int64(def))
	return p, nil
}

// Kind implements Parameter.
func (p *ChoiceParam) Kind() Kind { return KindChoice }

// Choices returns a copy of the choice names.
func (p *ChoiceParam) Choices() []string { return append([]string(nil), p.choices...) }

// Index returns the selected index. Safe on the audio thread.
func (p *ChoiceParam) Index() int { return int(p.index.Load()) }

// SetIndex selects index i, clamped to the valid range.
func (p *ChoiceParam) SetIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(p.choices) {
		i = len(p.choices) - 1
	}
	if int(p.index.Swap(int64(i))) != i {
		p.notify(float64(i))
	}
}

// Value implements Parameter.
func (p *ChoiceParam) Value() float64 { return float64(p.Index()) }

// SetValue implements Parameter; v is rounded to the nearest index.
func (p *ChoiceParam) SetValue(v float64) {
	if math.IsNaN(v) {
		return
	}
	p.SetIndex(int(math.Round(v)))
}

// DefaultValue implements Parameter.
func (p *ChoiceParam) DefaultValue() float64 { return float64(p.def) }

// Normalized implements Parameter.
func (p *ChoiceParam) Normalized() float64 {
	if len(p.choices) == 1 {
		return 0
	}
	return float64(p.Index()) / float64(len(p.choices)-1)
}

// SetNormalized implements Parameter.
func (p *ChoiceParam) SetNormalized(n float64) {
	if math.IsNaN(n) {
		return
	}
	n = math.Max(0, math.Min(1, n))
	p.SetIndex(int(math.Round(n * float64(len(p.choices)-1))))
}

// Text implements Parameter.
func (p *ChoiceParam) Text() string { return p.choices[p.Index()] }

// SetText implements Parameter. It accepts a choice name
// (case-insensitive) or an index.
func (p *ChoiceParam) SetText(s string) error {
	s = strings.TrimSpace(s)
	for i, c := range p.choices {
		if strings.EqualFold(c, s) {
			p.SetIndex(i)
			return nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(p.choices) {
		p.SetIndex(i)
		return nil
	}
	return fmt.Errorf("parameter %q: unknown choice %q", p.id, s)
}
