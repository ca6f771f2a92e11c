package params

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// StateRoot is the root element name of persisted state.
const StateRoot = "Parameters"

type stateDoc struct {
	XMLName xml.Name     `xml:"Parameters"`
	Params  []stateParam `xml:"PARAM"`
}

type stateParam struct {
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

// MarshalState encodes every parameter's plain value as an XML blob.
func (s *Store) MarshalState() ([]byte, error) {
	doc := stateDoc{Params: make([]stateParam, 0, len(s.order))}
	for _, id := range s.order {
		v := s.params[id].Value()
		doc.Params = append(doc.Params, stateParam{
			ID:    string(id),
			Value: strconv.FormatFloat(v, 'g', -1, 64),
		})
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode parameter state: %w", err)
	}
	return out, nil
}

// UnmarshalState restores values from a blob written by MarshalState.
// Unknown ids are skipped and parameters missing from the blob keep their
// current value. A blob with another root element is rejected without
// changing anything.
func (s *Store) UnmarshalState(data []byte) error {
	var doc stateDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode parameter state: %w", err)
	}

	type update struct {
		p Parameter
		v float64
	}
	updates := make([]update, 0, len(doc.Params))
	for _, sp := range doc.Params {
		p, ok := s.params[ID(sp.ID)]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(sp.Value, 64)
		if err != nil {
			return fmt.Errorf("decode parameter state: %s: %w", sp.ID, err)
		}
		updates = append(updates, update{p: p, v: v})
	}
	for _, u := range updates {
		u.p.SetValue(u.v)
	}
	return nil
}
