package composer

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain identifies one of the three independent drag domains. The domains
// never interact with each other's containers.
type Domain int

const (
	DomainTeachers Domain = iota
	DomainStudents
	DomainMedia
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case DomainTeachers:
		return "teachers"
	case DomainStudents:
		return "students"
	case DomainMedia:
		return "media"
	default:
		return "unknown"
	}
}

// ParseDomain maps the wire name back to a Domain.
func ParseDomain(raw string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "teachers", "teacher":
		return DomainTeachers, nil
	case "students", "student":
		return DomainStudents, nil
	case "media":
		return DomainMedia, nil
	default:
		return 0, fmt.Errorf("unknown drag domain %q", raw)
	}
}

// dupMarker separates the base media id from a duplicate stamp in wire ids.
const dupMarker = "-dup-"

// MediaID identifies a media item in an editor session. Dup is zero for the
// original library asset and carries a session-unique stamp for duplicates.
// Duplicates share the backend row of their base id; they are a client-side
// presentation device, so serialization always resolves to Base.
type MediaID struct {
	Base uint64
	Dup  int64
}

// IsDuplicate reports whether the id denotes a session-local duplicate.
func (id MediaID) IsDuplicate() bool {
	return id.Dup != 0
}

// String renders the wire form: "media-<n>" or "media-<n>-dup-<stamp>".
func (id MediaID) String() string {
	if id.Dup == 0 {
		return fmt.Sprintf("media-%d", id.Base)
	}
	return fmt.Sprintf("media-%d%s%d", id.Base, dupMarker, id.Dup)
}

// ParseMediaID accepts both wire forms produced by String.
func ParseMediaID(raw string) (MediaID, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "media-")
	var dup int64
	if idx := strings.Index(s, dupMarker); idx >= 0 {
		stamp, err := strconv.ParseInt(s[idx+len(dupMarker):], 10, 64)
		if err != nil {
			return MediaID{}, fmt.Errorf("invalid duplicate stamp in %q", raw)
		}
		dup = stamp
		s = s[:idx]
	}
	base, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return MediaID{}, fmt.Errorf("invalid media id %q", raw)
	}
	return MediaID{Base: base, Dup: dup}, nil
}

// EntityRef is the tagged identifier for any draggable entity. The Domain tag
// decides which of the id fields is meaningful, so resolution is a switch
// instead of string-prefix matching on a shared numeric namespace.
type EntityRef struct {
	Domain Domain
	NumID  uint64  // teachers and students
	Media  MediaID // media only
}

// TeacherRef builds a reference into the teacher domain.
func TeacherRef(id uint64) EntityRef {
	return EntityRef{Domain: DomainTeachers, NumID: id}
}

// StudentRef builds a reference into the student domain.
func StudentRef(id uint64) EntityRef {
	return EntityRef{Domain: DomainStudents, NumID: id}
}

// MediaRef builds a reference into the media domain.
func MediaRef(id MediaID) EntityRef {
	return EntityRef{Domain: DomainMedia, Media: id}
}

// TargetKind enumerates the shapes a drop target can take.
type TargetKind int

const (
	// TargetNone is an unresolved drop; transitions treat it as a no-op.
	TargetNone TargetKind = iota
	// TargetSlot addresses a slot index directly (empty-slot drop zones).
	TargetSlot
	// TargetEntity addresses whatever container currently holds an entity.
	TargetEntity
	// TargetPool addresses the available-pool container itself.
	TargetPool
)

// DropRef describes the drop side of a drag-end event.
type DropRef struct {
	Kind   TargetKind
	Slot   int
	Entity EntityRef
}

// NoDrop is the unresolved drop target.
func NoDrop() DropRef {
	return DropRef{Kind: TargetNone}
}

// SlotDrop targets slot index i.
func SlotDrop(i int) DropRef {
	return DropRef{Kind: TargetSlot, Slot: i}
}

// EntityDrop targets the container holding the given entity.
func EntityDrop(ref EntityRef) DropRef {
	return DropRef{Kind: TargetEntity, Entity: ref}
}

// PoolDrop targets the available-pool container.
func PoolDrop() DropRef {
	return DropRef{Kind: TargetPool}
}
