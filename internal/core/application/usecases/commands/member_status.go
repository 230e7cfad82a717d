package commands

// MemberStatus is a chat membership state as reported by the platform.
type MemberStatus string

const (
	MemberCreator       MemberStatus = "creator"
	MemberAdministrator MemberStatus = "administrator"
	MemberJoined        MemberStatus = "member"
	MemberRestricted    MemberStatus = "restricted"
	MemberLeft          MemberStatus = "left"
	MemberKicked        MemberStatus = "kicked"
)

// isOutside reports whether the status means the user is not in the chat.
func (s MemberStatus) isOutside() bool {
	return s == MemberLeft || s == MemberKicked
}

// isInside is limited to the statuses a fresh join can produce.
func (s MemberStatus) isInside() bool {
	return s == MemberJoined || s == MemberAdministrator
}
