package session

import (
	"encoding/binary"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GuestPrefix marks locally generated identities.
const GuestPrefix = "guest_"

const (
	guestSuffixLen = 6
	guestSpace     = 36 * 36 * 36 * 36 * 36 * 36
)

var guestPattern = regexp.MustCompile(`^guest_[a-z0-9]{6}$`)

// Kind classifies an identity.
type Kind int

const (
	KindAbsent Kind = iota
	KindGuest
	KindAssigned
)

func (k Kind) String() string {
	switch k {
	case KindGuest:
		return "guest"
	case KindAssigned:
		return "assigned"
	default:
		return "absent"
	}
}

// Identity is the current actor: absent, a guest, or an assigned (backend-issued) id.
type Identity struct {
	Kind Kind
	ID   string
}

// Classify turns a raw id into an Identity. Any non-empty value is accepted;
// only the guest prefix decides between guest and assigned.
func Classify(id string) Identity {
	switch {
	case id == "":
		return Identity{Kind: KindAbsent}
	case strings.HasPrefix(id, GuestPrefix):
		return Identity{Kind: KindGuest, ID: id}
	default:
		return Identity{Kind: KindAssigned, ID: id}
	}
}

// Present reports whether the identity carries an id.
func (i Identity) Present() bool { return i.Kind != KindAbsent }

// IsGuest is true for guests and for the absent identity.
func (i Identity) IsGuest() bool { return i.Kind != KindAssigned }

func (i Identity) String() string {
	if i.Kind == KindAbsent {
		return "<none>"
	}
	return i.ID
}

// IsGuestID reports whether id is empty or carries the guest prefix.
func IsGuestID(id string) bool {
	return Classify(id).IsGuest()
}

// ValidGuestID reports whether id has the exact shape NewGuestID produces.
func ValidGuestID(id string) bool {
	return guestPattern.MatchString(id)
}

// NewGuestID returns "guest_" followed by six base-36 characters. Collisions are
// not checked; the space is 36^6.
func NewGuestID() string {
	u := uuid.New()
	var buf [8]byte
	copy(buf[2:], u[:6])
	return guestIDFrom(binary.BigEndian.Uint64(buf[:]))
}

func guestIDFrom(n uint64) string {
	s := strconv.FormatUint(n%guestSpace, 36)
	return GuestPrefix + strings.Repeat("0", guestSuffixLen-len(s)) + s
}
