package vault

import "github.com/google/uuid"

// ContainedKind ranks the Contained variants. The order is fixed and is
// what list views sort sections by.
type ContainedKind int

const (
	KindVirtualRoot ContainedKind = iota
	KindGroup
	KindTemplate
	KindTag
	KindEntry
)

// Contained is a reference to one item visible in a hierarchy: a real
// group or entry, a synthesized template or tag, or the artificial root of
// a view that has no natural one.
//
// Equality and ordering are defined by kind alone. That is deliberate:
// list views only need to section groupings before entries, and two
// groups are "equal" for that purpose no matter their content.
type Contained struct {
	kind ContainedKind
	name string

	group    *Group
	template *Template
	tag      *Tag
	entry    *Entry
}

func VirtualRootRef(name string) Contained { return Contained{kind: KindVirtualRoot, name: name} }
func GroupRef(g *Group) Contained          { return Contained{kind: KindGroup, group: g} }
func TemplateRef(t *Template) Contained    { return Contained{kind: KindTemplate, template: t} }
func TagRef(t *Tag) Contained              { return Contained{kind: KindTag, tag: t} }
func EntryRef(e *Entry) Contained          { return Contained{kind: KindEntry, entry: e} }

func (c Contained) Kind() ContainedKind { return c.kind }

// UUID returns the referenced item's identity; the zero uuid for a
// virtual root.
func (c Contained) UUID() uuid.UUID {
	switch c.kind {
	case KindGroup:
		return c.group.uuid
	case KindTemplate:
		return c.template.uuid
	case KindTag:
		return c.tag.uuid
	case KindEntry:
		return c.entry.uuid
	default:
		return uuid.UUID{}
	}
}

// Name returns the display name. For entries this reveals the title,
// which re-keys its envelope like any other read.
func (c Contained) Name() string {
	switch c.kind {
	case KindGroup:
		return c.group.name
	case KindTemplate:
		return c.template.name
	case KindTag:
		return c.tag.name
	case KindEntry:
		if ref, ok := c.entry.Title(); ok {
			if title, err := ref.Reveal(); err == nil {
				return title
			}
		}
		return ""
	default:
		return c.name
	}
}

// Parent returns the containing group's uuid where one exists.
func (c Contained) Parent() *uuid.UUID {
	switch c.kind {
	case KindGroup:
		return c.group.parent
	case KindEntry:
		id := c.entry.parentGroup
		return &id
	default:
		return nil
	}
}

// Entry returns the referenced entry for KindEntry.
func (c Contained) Entry() (*Entry, bool) {
	return c.entry, c.kind == KindEntry
}

// IsGrouping reports whether the reference is a group-like container
// rather than a leaf entry.
func (c Contained) IsGrouping() bool {
	return c.kind != KindEntry
}

// Equal compares by kind only.
func (c Contained) Equal(other Contained) bool {
	return c.kind == other.kind
}

// Compare orders by the fixed variant rank.
func (c Contained) Compare(other Contained) int {
	switch {
	case c.kind < other.kind:
		return -1
	case c.kind > other.kind:
		return 1
	default:
		return 0
	}
}

// Container is one node of a hierarchy projection: a Contained reference
// plus its materialized children. Containers hold references only and are
// rebuilt whenever a hierarchy is constructed.
type Container struct {
	ref      Contained
	isRoot   bool
	children []*Container
}

func (c *Container) Ref() Contained { return c.ref }

func (c *Container) UUID() uuid.UUID { return c.ref.UUID() }

func (c *Container) IsRoot() bool { return c.isRoot }

func (c *Container) Children() []*Container { return c.children }

// find fetches a container by uuid anywhere in this subtree, including
// the node itself.
func (c *Container) find(id uuid.UUID) (*Container, bool) {
	if c.UUID() == id {
		return c, true
	}
	for _, child := range c.children {
		if found, ok := child.find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// searchImmediate filters direct children against term. An empty term
// keeps everything. Insertion order is preserved; no re-ranking.
func (c *Container) searchImmediate(term string, matcher Matcher) []Contained {
	var refs []Contained
	for _, child := range c.children {
		if term == "" || matchContained(child.ref, term, matcher) {
			refs = append(refs, child.ref)
		}
	}
	return refs
}

// Container constructors. Children materialize groupings before entries
// only where the source order says so; group children keep file order.

func containerForGroup(db *Database, g *Group) *Container {
	node := &Container{ref: GroupRef(g)}
	for _, id := range g.groups {
		if sub, ok := db.Group(id); ok {
			node.children = append(node.children, containerForGroup(db, sub))
		}
	}
	for _, id := range g.entries {
		if entry, ok := db.Entry(id); ok {
			node.children = append(node.children, containerForEntry(entry))
		}
	}
	return node
}

func containerForTemplate(db *Database, t *Template) *Container {
	node := &Container{ref: TemplateRef(t)}
	for _, id := range t.members {
		if entry, ok := db.Entry(id); ok {
			node.children = append(node.children, containerForEntry(entry))
		}
	}
	return node
}

func containerForTag(db *Database, t *Tag) *Container {
	node := &Container{ref: TagRef(t)}
	for _, id := range t.members {
		if entry, ok := db.Entry(id); ok {
			node.children = append(node.children, containerForEntry(entry))
		}
	}
	return node
}

func containerForEntry(e *Entry) *Container {
	return &Container{ref: EntryRef(e)}
}

func virtualRoot(name string, children []*Container) *Container {
	return &Container{
		ref:      VirtualRootRef(name),
		isRoot:   true,
		children: children,
	}
}
