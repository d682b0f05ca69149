package domain

// Session is the explicit actor context passed to every service call.
type Session struct {
	User     *User
	Settings NotificationSettings
}

// NewSession builds a session for user with the given feed settings.
func NewSession(user *User, settings NotificationSettings) *Session {
	return &Session{User: user, Settings: settings}
}

// ActorID returns the acting user's id, or "" for an anonymous session.
func (s *Session) ActorID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// Can is shorthand for CanPerform on the session's user.
func (s *Session) Can(resource Resource, action Action) bool {
	if s == nil {
		return false
	}
	return CanPerform(s.User, resource, action)
}
