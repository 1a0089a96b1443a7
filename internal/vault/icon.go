package vault

// IconKind discriminates the Icon variants.
type IconKind int

const (
	IconNone IconKind = iota
	IconBuiltin
	IconImage
)

// Icon is either a builtin KeePass icon id or raw custom image bytes.
// A custom image always wins over a builtin id when both are present.
type Icon struct {
	kind    IconKind
	builtin int64
	image   []byte
}

func NoIcon() Icon {
	return Icon{kind: IconNone}
}

func BuiltinIcon(id int64) Icon {
	return Icon{kind: IconBuiltin, builtin: id}
}

func ImageIcon(data []byte) Icon {
	return Icon{kind: IconImage, image: data}
}

func (i Icon) Kind() IconKind { return i.kind }

// BuiltinID returns the builtin icon id, valid only for IconBuiltin.
func (i Icon) BuiltinID() int64 { return i.builtin }

// Image returns the raw image bytes, valid only for IconImage.
func (i Icon) Image() []byte { return i.image }
