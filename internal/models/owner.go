package models

import (
	"strconv"
	"strings"
)

// Owner identifies whose progress record is read and written: a profile, or
// the single anonymous record used when no profile is selected.
type Owner string

const AnonymousOwner Owner = "anonymous"

const profileOwnerPrefix = "profile:"

func ProfileOwner(profileID int64) Owner {
	return Owner(profileOwnerPrefix + strconv.FormatInt(profileID, 10))
}

func (o Owner) IsAnonymous() bool {
	return o == AnonymousOwner || o == ""
}

// ProfileID returns the profile behind the owner, or false for anonymous.
func (o Owner) ProfileID() (int64, bool) {
	s, ok := strings.CutPrefix(string(o), profileOwnerPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (o Owner) String() string {
	if o == "" {
		return string(AnonymousOwner)
	}
	return string(o)
}
