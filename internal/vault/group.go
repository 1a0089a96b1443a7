package vault

import "github.com/google/uuid"

// Group is one folder node of the vault tree. Child ids stay in source
// file order.
type Group struct {
	uuid    uuid.UUID
	parent  *uuid.UUID
	name    string
	groups  []uuid.UUID
	entries []uuid.UUID
	icon    Icon
}

func (g *Group) UUID() uuid.UUID { return g.uuid }

// Parent returns the parent group uuid; nil only for the root.
func (g *Group) Parent() *uuid.UUID { return g.parent }

func (g *Group) Name() string { return g.name }

func (g *Group) Icon() Icon { return g.icon }

// Subgroups returns the ordered child group uuids.
func (g *Group) Subgroups() []uuid.UUID { return g.groups }

// EntryIDs returns the ordered child entry uuids.
func (g *Group) EntryIDs() []uuid.UUID { return g.entries }

// Template is a synthesized grouping: every entry carrying the template
// marker custom field joins the template named by that field's value. The
// template's own identity is the uuid of its defining entry, whose title
// and icon become the template's.
type Template struct {
	uuid    uuid.UUID
	name    string
	icon    Icon
	members []uuid.UUID
}

// unknownTemplateName is used when no entry with the template's uuid
// exists to resolve a name from.
const unknownTemplateName = "Unknown Template"

func (t *Template) UUID() uuid.UUID { return t.uuid }

func (t *Template) Name() string { return t.name }

func (t *Template) Icon() Icon { return t.icon }

// Members returns the member entry uuids in accumulation order.
func (t *Template) Members() []uuid.UUID { return t.members }

// tagNamespace seeds the deterministic uuid derived for each tag name, so
// a tag keeps the same identity across hierarchy rebuilds.
var tagNamespace = uuid.MustParse("8b8f4a47-2f4d-4a7e-9c11-64c26c8a3d5b")

// Tag is a synthesized grouping of all entries sharing one tag string.
type Tag struct {
	uuid    uuid.UUID
	name    string
	members []uuid.UUID
}

// NewTag derives the tag's stable uuid from its name.
func NewTag(name string, members []uuid.UUID) *Tag {
	return &Tag{
		uuid:    uuid.NewSHA1(tagNamespace, []byte(name)),
		name:    name,
		members: members,
	}
}

func (t *Tag) UUID() uuid.UUID { return t.uuid }

func (t *Tag) Name() string { return t.name }

// Members returns the member entry uuids in first-seen order.
func (t *Tag) Members() []uuid.UUID { return t.members }
