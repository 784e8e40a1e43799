package activity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lzjever/mbos-activity/internal/core"
)

type noteAdded struct {
	Header
	Note string `json:"note"`
}

func (noteAdded) EventKind() EventKind          { return "NoteAdded" }
func (noteAdded) Revision() Revision            { return 1 }
func (noteAdded) SubjectKind() core.SubjectKind { return core.SubjectAccount }
func (e noteAdded) Render() string              { return "Note added: " + e.Note }

type noteAddedV2 struct {
	Header
	Note   string `json:"note"`
	Pinned bool   `json:"pinned"`
}

func (noteAddedV2) EventKind() EventKind          { return "NoteAdded" }
func (noteAddedV2) Revision() Revision            { return 2 }
func (noteAddedV2) SubjectKind() core.SubjectKind { return core.SubjectAccount }
func (e noteAddedV2) Render() string              { return "Note added: " + e.Note }

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(DecoderFor[noteAdded](), DecoderFor[noteAddedV2]())
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	d, ok := r.Lookup("NoteAdded", 2)
	require.True(t, ok)
	require.Equal(t, Key{Kind: "NoteAdded", Revision: 2}, d.Key())
	require.Equal(t, core.SubjectAccount, d.Subject)

	_, ok = r.Lookup("NoteAdded", 3)
	require.False(t, ok)
}

func TestRegistry_RejectsBadDecoders(t *testing.T) {
	_, err := NewRegistry(DecoderFor[noteAdded](), DecoderFor[noteAdded]())
	require.ErrorIs(t, err, ErrDuplicateDecoder)

	_, err = NewRegistry(Decoder{Kind: "X", Revision: 1})
	require.Error(t, err)

	_, err = NewRegistry(Decoder{Kind: "X"})
	require.Error(t, err)

	_, err = NewRegistry(Decoder{Revision: 1})
	require.Error(t, err)

	require.Panics(t, func() { MustNewRegistry(DecoderFor[noteAdded](), DecoderFor[noteAdded]()) })
}

func TestRegistry_DecodersAreSorted(t *testing.T) {
	r := MustNewRegistry(DecoderFor[noteAddedV2](), DecoderFor[noteAdded]())
	ds := r.Decoders()
	require.Len(t, ds, 2)
	require.Equal(t, Revision(1), ds[0].Revision)
	require.Equal(t, Revision(2), ds[1].Revision)
}

func TestRegistry_Missing(t *testing.T) {
	r := MustNewRegistry(DecoderFor[noteAdded]())
	missing := r.Missing([]Key{
		{Kind: "NoteAdded", Revision: 1},
		{Kind: "NoteAdded", Revision: 2},
		{Kind: "Other", Revision: 1},
	})
	require.Equal(t, []Key{{Kind: "NoteAdded", Revision: 2}, {Kind: "Other", Revision: 1}}, missing)
	require.Empty(t, r.Missing(nil))
}

func TestDecoder_StrictDecoding(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := noteAdded{
		Header: Header{ActorID: uuid.New(), ActorFullName: "Ada", OccurredAt: at},
		Note:   "hello",
	}
	raw, err := Encode(in)
	require.NoError(t, err)

	d := DecoderFor[noteAdded]()
	out, err := d.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, in, out)

	item, err := d.Display(raw, at)
	require.NoError(t, err)
	require.Equal(t, DisplayItem{Timestamp: at, ActorFullName: "Ada", Message: "Note added: hello"}, item)

	// a v2 payload is not silently accepted as v1
	v2, err := Encode(noteAddedV2{Header: in.Header, Note: "hello", Pinned: true})
	require.NoError(t, err)
	_, err = d.Decode(v2)
	require.ErrorIs(t, err, ErrMalformedPayload)

	var zero Decoder
	_, err = zero.Decode(raw)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestEncode_ValidatesHeader(t *testing.T) {
	_, err := Encode(noteAdded{Note: "x"})
	require.Error(t, err)
}

func TestNewHeader(t *testing.T) {
	caller := core.Caller{UserID: uuid.New(), FullName: "Ada", Roles: []string{"Admin"}}
	at := time.Date(2024, 1, 1, 3, 0, 0, 0, time.FixedZone("X", 3600))
	h := NewHeader(caller, at)
	require.Equal(t, caller.UserID, h.ActorID)
	require.Equal(t, "Ada", h.ActorFullName)
	require.Equal(t, []string{"Admin"}, h.ActorRoles)
	require.Equal(t, time.UTC, h.OccurredAt.Location())

	caller.Roles[0] = "Changed"
	require.Equal(t, "Admin", h.ActorRoles[0])
}
