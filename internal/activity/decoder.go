package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/lzjever/mbos-activity/internal/core"
)

// Decoder turns the stored payload of one (kind, revision) back into its schema.
type Decoder struct {
	Kind     EventKind
	Revision Revision
	Subject  core.SubjectKind

	decode func(raw []byte) (Payload, error)
}

// DecoderFor builds the decoder for payload type P. Decoding is strict:
// unknown fields, trailing data and failed validation are all rejected.
func DecoderFor[P Payload]() Decoder {
	var zero P
	return Decoder{
		Kind:     zero.EventKind(),
		Revision: zero.Revision(),
		Subject:  zero.SubjectKind(),
		decode: func(raw []byte) (Payload, error) {
			var p P
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&p); err != nil {
				return nil, err
			}
			if dec.More() {
				return nil, errors.New("trailing data after payload")
			}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

func (d Decoder) Key() Key {
	return Key{Kind: d.Kind, Revision: d.Revision}
}

// Decode parses raw into the payload schema. Failures are reported as
// *MalformedPayloadError.
func (d Decoder) Decode(raw string) (Payload, error) {
	if d.decode == nil {
		return nil, &MalformedPayloadError{Key: d.Key(), Err: errors.New("decoder has no decode function")}
	}
	p, err := d.decode([]byte(raw))
	if err != nil {
		return nil, &MalformedPayloadError{Key: d.Key(), Err: err}
	}
	return p, nil
}

// Display decodes raw and renders it as a feed item stamped with at.
func (d Decoder) Display(raw string, at time.Time) (DisplayItem, error) {
	p, err := d.Decode(raw)
	if err != nil {
		return DisplayItem{}, err
	}
	return Display(p, at), nil
}
