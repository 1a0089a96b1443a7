package vault

import "github.com/google/uuid"

// ViewKind enumerates the hierarchy projections. The set is closed;
// switches over it are exhaustive.
type ViewKind int

const (
	// ViewDefault mirrors the real group tree from its root.
	ViewDefault ViewKind = iota
	// ViewAllTemplates lists every template under a virtual root.
	ViewAllTemplates
	// ViewTotpEntries is a flat list of every otp-bearing entry.
	ViewTotpEntries
	// ViewAllTags groups entries by tag under a virtual root.
	ViewAllTags
)

// Feature flags a capability a view asks the UI to enable. Rendering 2FA
// codes outside the 2FA view is prevented by keying on this.
type Feature int

const (
	FeatureNone Feature = iota
	FeatureDisplayTwoFactorAuth
)

// Hierarchy is one constructed view over a Database: a container tree of
// references, rebuilt on construction and never updated in place. Any
// mutation of the underlying database means building a fresh Hierarchy.
type Hierarchy struct {
	kind ViewKind
	root *Container
}

// NewDefaultView projects the real group tree.
func NewDefaultView(db *Database) *Hierarchy {
	root := containerForGroup(db, db.RootGroup())
	root.isRoot = true
	return &Hierarchy{kind: ViewDefault, root: root}
}

// NewAllTemplates lists every template under the "Special Categories"
// virtual root.
func NewAllTemplates(db *Database) *Hierarchy {
	var children []*Container
	for t := range db.Templates() {
		children = append(children, containerForTemplate(db, t))
	}
	return &Hierarchy{
		kind: ViewAllTemplates,
		root: virtualRoot("Special Categories", children),
	}
}

// NewTotpEntries flattens every otp-bearing entry under the "2FA Codes"
// virtual root.
func NewTotpEntries(db *Database) *Hierarchy {
	var children []*Container
	for entry := range db.Entries() {
		if entry.HasOTP() {
			children = append(children, containerForEntry(entry))
		}
	}
	return &Hierarchy{
		kind: ViewTotpEntries,
		root: virtualRoot("2FA Codes", children),
	}
}

// NewAllTags builds one Tag node per distinct tag, in first-seen entry
// order, under the "Tags" virtual root.
func NewAllTags(db *Database) *Hierarchy {
	tags := newOrdMap[string, []uuid.UUID]()
	for entry := range db.Entries() {
		for _, tag := range entry.tags {
			members, _ := tags.Get(tag)
			tags.Set(tag, append(members, entry.uuid))
		}
	}

	var children []*Container
	for name, members := range tags.All() {
		children = append(children, containerForTag(db, NewTag(name, members)))
	}
	return &Hierarchy{
		kind: ViewAllTags,
		root: virtualRoot("Tags", children),
	}
}

func (h *Hierarchy) Kind() ViewKind { return h.kind }

func (h *Hierarchy) Root() *Container { return h.root }

// Name returns the view's display name.
func (h *Hierarchy) Name() string {
	switch h.kind {
	case ViewAllTemplates:
		return "All Templates"
	case ViewTotpEntries:
		return "2FA Codes"
	case ViewAllTags:
		return "Tags"
	default:
		return "Default View"
	}
}

// Feature reports what extra capability the view enables.
func (h *Hierarchy) Feature() Feature {
	if h.kind == ViewTotpEntries {
		return FeatureDisplayTwoFactorAuth
	}
	return FeatureNone
}

// Get resolves a container anywhere in the view to its reference.
func (h *Hierarchy) Get(id uuid.UUID) (Contained, bool) {
	c, ok := h.root.find(id)
	if !ok {
		return Contained{}, false
	}
	return c.ref, true
}

// Search filters the immediate children of the addressed container. An
// empty term lists everything. In the all-templates view, searching from
// the artificial root searches across all templates.
func (h *Hierarchy) Search(containerID uuid.UUID, term string, matcher Matcher) []Contained {
	if h.kind == ViewAllTemplates && containerID == h.root.UUID() {
		return h.root.searchImmediate(term, matcher)
	}

	c, ok := h.root.find(containerID)
	if !ok {
		return nil
	}
	return c.searchImmediate(term, matcher)
}
