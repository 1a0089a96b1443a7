package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/keepvault/keepvault/internal/logging"
	"github.com/keepvault/keepvault/internal/secret"
	"github.com/tobischo/gokeepasslib/v3"
)

// Known value keys promoted to named entry fields. Everything else
// becomes a custom field.
const (
	keyTitle    = "Title"
	keyUsername = "UserName"
	keyPassword = "Password"
	keyURL      = "URL"
	keyNotes    = "Notes"
	keyOTP      = "otp"
)

type loader struct {
	store *secret.Store
	log   logging.Logger

	icons map[uuid.UUID][]byte

	groups    *ordMap[uuid.UUID, *Group]
	entries   *ordMap[uuid.UUID, *Entry]
	templates map[uuid.UUID]*Template
}

// Load flattens a decoded KDBX tree into a Database, wrapping every
// protected field value into its own encrypted envelope. Malformed
// individual field values are dropped; a missing root group or any
// key/encryption failure aborts the whole load.
func Load(src *gokeepasslib.Database, log logging.Logger) (*Database, error) {
	if log == nil {
		log = logging.Nop()
	}

	root, meta, err := rootGroup(src)
	if err != nil {
		return nil, err
	}

	store, err := secret.NewStore()
	if err != nil {
		return nil, fmt.Errorf("creating secret store: %w", err)
	}

	l := &loader{
		store:     store,
		log:       log,
		icons:     customIcons(meta),
		groups:    newOrdMap[uuid.UUID, *Group](),
		entries:   newOrdMap[uuid.UUID, *Entry](),
		templates: make(map[uuid.UUID]*Template),
	}

	rootNode, err := l.walkGroup(root, nil)
	if err != nil {
		_ = store.Poison()
		return nil, err
	}
	l.groups.Set(rootNode.uuid, rootNode)

	l.resolveTemplates()

	return &Database{
		store:     store,
		metadata:  newMetadata(meta),
		root:      rootNode.uuid,
		groups:    l.groups,
		entries:   l.entries,
		templates: l.templates,
	}, nil
}

func rootGroup(src *gokeepasslib.Database) (*gokeepasslib.Group, *gokeepasslib.MetaData, error) {
	if src == nil || src.Content == nil || src.Content.Root == nil ||
		len(src.Content.Root.Groups) == 0 {
		return nil, nil, common.ErrorNoRootGroup
	}
	// KDBX files carry exactly one top-level group.
	return &src.Content.Root.Groups[0], src.Content.Meta, nil
}

// customIcons builds the uuid to image-bytes side table up front, so icon
// references resolve no matter where in the tree they occur.
func customIcons(meta *gokeepasslib.MetaData) map[uuid.UUID][]byte {
	icons := make(map[uuid.UUID][]byte)
	if meta == nil {
		return icons
	}
	for _, icon := range meta.CustomIcons {
		icons[uuid.UUID(icon.UUID)] = []byte(icon.Data)
	}
	return icons
}

// walkGroup processes children depth-first, registering descendants
// before returning the group itself unregistered; the caller decides
// where it goes.
func (l *loader) walkGroup(src *gokeepasslib.Group, parent *uuid.UUID) (*Group, error) {
	id := uuid.UUID(src.UUID)

	g := &Group{
		uuid:   id,
		parent: parent,
		name:   src.Name,
		icon:   l.icon(src.CustomIconUUID, src.IconID),
	}

	for i := range src.Groups {
		sub, err := l.walkGroup(&src.Groups[i], &id)
		if err != nil {
			return nil, err
		}
		g.groups = append(g.groups, sub.uuid)
		l.groups.Set(sub.uuid, sub)
	}

	for i := range src.Entries {
		entry, err := l.buildEntry(&src.Entries[i], id)
		if err != nil {
			return nil, err
		}
		g.entries = append(g.entries, entry.uuid)
		l.entries.Set(entry.uuid, entry)

		if entry.templateUUID != nil {
			l.addTemplateMember(*entry.templateUUID, entry.uuid)
		}
	}

	return g, nil
}

func (l *loader) buildEntry(src *gokeepasslib.Entry, parent uuid.UUID) (*Entry, error) {
	e := &Entry{
		uuid:         uuid.UUID(src.UUID),
		parentGroup:  parent,
		store:        l.store,
		customFields: newOrdMap[string, *Value](),
		tags:         splitTags(src.Tags),
		icon:         l.icon(src.CustomIconUUID, src.IconID),
	}

	for _, v := range src.Values {
		value, err := l.makeValue(v.Value.Content, v.Value.Protected.Bool)
		if err != nil {
			return nil, fmt.Errorf("wrapping field %q of entry %s: %w", v.Key, e.uuid, err)
		}

		switch v.Key {
		case keyTitle:
			e.title = value
		case keyUsername:
			e.username = value
		case keyPassword:
			e.password = value
		case keyURL:
			e.url = value
		case keyNotes:
			e.notes = value
		case keyOTP:
			e.rawOTP = value
		case templateFieldName:
			if id, err := uuid.Parse(v.Value.Content); err == nil {
				e.templateUUID = &id
			} else {
				l.log.Debug(context.Background(), "dropping malformed template reference",
					"entry", e.uuid.String())
			}
			value.Wipe()
		default:
			if shouldHideField(v.Key) {
				value.Wipe()
				continue
			}
			e.customFields.Set(v.Key, value)
		}
	}

	for _, cd := range src.CustomData {
		if shouldHideField(cd.Key) {
			continue
		}
		if _, exists := e.customFields.Get(cd.Key); exists {
			continue
		}
		e.customFields.Set(cd.Key, SensitiveValue([]byte(cd.Value)))
	}

	return e, nil
}

// makeValue wraps one field value: protected content goes into a fresh
// envelope under its own subkey, everything else stays as a wipeable
// buffer.
func (l *loader) makeValue(content string, protected bool) (*Value, error) {
	if !protected {
		return SensitiveValue([]byte(content)), nil
	}
	env, err := secret.NewEnvelope(l.store, l.store.NextFieldID(), []byte(content))
	if err != nil {
		return nil, err
	}
	return ProtectedValue(env), nil
}

func (l *loader) icon(custom gokeepasslib.UUID, builtin int64) Icon {
	if data, ok := l.icons[uuid.UUID(custom)]; ok {
		return ImageIcon(data)
	}
	return BuiltinIcon(builtin)
}

func (l *loader) addTemplateMember(templateID, entryID uuid.UUID) {
	t, ok := l.templates[templateID]
	if !ok {
		t = &Template{uuid: templateID}
		l.templates[templateID] = t
	}
	t.members = append(t.members, entryID)
}

// resolveTemplates fills in names and icons once all entries are known:
// a template's defining record is the entry whose own uuid matches.
func (l *loader) resolveTemplates() {
	for id, t := range l.templates {
		t.name = unknownTemplateName

		entry, ok := l.entries.Get(id)
		if !ok {
			l.log.Debug(context.Background(), "template has no defining entry", "template", id.String())
			continue
		}

		t.icon = entry.icon
		if ref, ok := entry.Title(); ok {
			if title, err := ref.Reveal(); err == nil {
				t.name = title
			}
		}
	}
}

// splitTags handles both separators KeePass clients use.
func splitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}
