package web

// User is the authenticated-user handle a request carries. It is stored in
// the session, not looked up from a user store; applications that need more
// than an identity keep their own records keyed by ID.
type User struct {
	ID       string
	Username string
}

// IsAuthenticated reports whether the user is a real identity rather than
// the anonymous default.
func (u User) IsAuthenticated() bool {
	return u.ID != ""
}

// sessionUserKey namespaces the identity inside the session payload.
const sessionUserKey = "_auth_user"

// User returns the request's user, anonymous when nobody is logged in.
func (r *Request) User() User {
	return CurrentUser(r)
}

// CurrentUser returns the request's user, anonymous when nobody is logged
// in.
func CurrentUser(r *Request) User {
	v := r.Session().Get(sessionUserKey)
	m, ok := v.(map[string]any)
	if !ok {
		return User{}
	}
	id, _ := m["id"].(string)
	username, _ := m["username"].(string)
	return User{ID: id, Username: username}
}

// Login records the user in the session.
func Login(r *Request, u User) {
	r.Session().Set(sessionUserKey, map[string]any{
		"id":       u.ID,
		"username": u.Username,
	})
}

// Logout clears the whole session, dropping the identity along with any
// per-user state.
func Logout(r *Request) {
	r.Session().Flush()
}
