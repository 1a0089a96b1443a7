package vault

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/tobischo/gokeepasslib/v3"
)

// KeePassXC publishes a few display properties as unencrypted custom data.
const (
	kpxcPublicName  = "KPXC_PUBLIC_NAME"
	kpxcPublicColor = "KPXC_PUBLIC_COLOR"
	kpxcPublicIcon  = "KPXC_PUBLIC_ICON"
)

// Metadata carries the database-level display properties. All fields are
// best-effort: absent or unparsable source data leaves the zero value.
type Metadata struct {
	Name           string
	Color          string
	Icon           int
	HasIcon        bool
	RecycleBinUUID *uuid.UUID
}

// newMetadata extracts the typed display properties from the KDBX meta
// block, preferring the KeePassXC public custom-data keys and falling back
// to the plain database name.
func newMetadata(meta *gokeepasslib.MetaData) Metadata {
	var md Metadata
	if meta == nil {
		return md
	}

	md.Name = meta.DatabaseName

	for _, cd := range meta.CustomData {
		switch cd.Key {
		case kpxcPublicName:
			if cd.Value != "" {
				md.Name = cd.Value
			}
		case kpxcPublicColor:
			md.Color = cd.Value
		case kpxcPublicIcon:
			if n, err := strconv.Atoi(cd.Value); err == nil {
				md.Icon = n
				md.HasIcon = true
			}
		}
	}

	if meta.RecycleBinUUID != (gokeepasslib.UUID{}) {
		id := uuid.UUID(meta.RecycleBinUUID)
		md.RecycleBinUUID = &id
	}

	return md
}
