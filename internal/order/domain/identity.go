package domain

// Identity is the purchaser on whose behalf an order is created. It arrives
// either from an authenticated session or from the request payload.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) Valid() bool {
	return id.Name != "" && id.Email != ""
}

// ResolveIdentity merges the session identity with the payload identity.
// Session fields always win when set, so a caller cannot place an order as
// an arbitrary identity just by naming one in the body.
func ResolveIdentity(session, payload Identity) Identity {
	resolved := session
	if resolved.Name == "" {
		resolved.Name = payload.Name
	}
	if resolved.Email == "" {
		resolved.Email = payload.Email
	}
	return resolved
}
