package profilekit

// Checker answers effective-access questions for one user: which profile
// governs a resource, and what access the user ends up with through its own
// permits, its group permits, ID(*) entries or universal access.
type Checker struct {
	userID string
	groups []string
}

// NewChecker creates a Checker for a user and its group memberships.
func NewChecker(userID string, groups ...string) *Checker {
	return &Checker{
		userID: userID,
		groups: groups,
	}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// Access resolves the user's effective access to a dataset or resource name.
// It returns the empty string when no profile governs the name, and "NONE"
// when a profile governs it but grants the user nothing.
//
// Example:
//
//	level, err := checker.Access(datasets, src, "SYS1.PARMLIB")
func (c *Checker) Access(profiles *Frame, src ACLSource, name string) (string, error) {
	return c.access(profiles, src, MatchNames(name))
}

// AccessInClass is Access scoped to one general-resource class.
//
// Example:
//
//	level, err := checker.AccessInClass(generals, src, "FACILITY", "BPX.SUPERUSER")
func (c *Checker) AccessInClass(profiles *Frame, src ACLSource, class, name string) (string, error) {
	return c.access(profiles, src, MatchNames(name).WithClass(class))
}

// Allowed reports whether the user's effective access satisfies the required
// level.
func (c *Checker) Allowed(profiles *Frame, src ACLSource, name, required string) (bool, error) {
	level, err := c.Access(profiles, src, name)
	if err != nil {
		return false, err
	}
	if level == "" {
		return false, nil
	}
	return AccessAllows(level, required), nil
}

// AllowedInClass is Allowed scoped to one general-resource class.
func (c *Checker) AllowedInClass(profiles *Frame, src ACLSource, class, name, required string) (bool, error) {
	level, err := c.AccessInClass(profiles, src, class, name)
	if err != nil {
		return false, err
	}
	if level == "" {
		return false, nil
	}
	return AccessAllows(level, required), nil
}

// access resolves the governing profile and folds its access list down to
// the user's effective level.
func (c *Checker) access(profiles *Frame, src ACLSource, q MatchQuery) (string, error) {
	governing, err := profiles.Match(q)
	if err != nil {
		return "", err
	}
	if governing.Empty() {
		return "", nil
	}

	acl, err := governing.ACL(src, NewACLOptions())
	if err != nil {
		return "", err
	}

	users, err := acl.Column("USER_ID")
	if err != nil {
		return "", err
	}
	auths, err := acl.Column("AUTH_ID")
	if err != nil {
		return "", err
	}
	accesses, err := acl.Column("ACCESS")
	if err != nil {
		return "", err
	}

	memberOf := make(map[string]bool, len(c.groups))
	for _, g := range c.groups {
		memberOf[g] = true
	}

	// A user-specific permit always wins; otherwise the strongest of group
	// permits, ID(*) entries and universal access applies.
	userLevel := ""
	otherLevel := "NONE"
	for i := range users {
		switch {
		case auths[i] == c.userID:
			userLevel = HigherAccess(userLevel, accesses[i])
		case memberOf[auths[i]] || auths[i] == "*" || auths[i] == "-uacc-":
			otherLevel = HigherAccess(otherLevel, accesses[i])
		}
	}

	if userLevel != "" {
		return userLevel, nil
	}
	return otherLevel, nil
}
