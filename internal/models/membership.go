package models

// Pupil is a student account managed by a teacher. The id is assigned by the
// authority and stays stable across group moves; the username doubles as the
// workspace subdomain.
type Pupil struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Groups    []Group `json:"groups,omitempty"`
}

// FullName renders the display form used in lists.
func (p Pupil) FullName() string {
	return p.Firstname + " " + p.Lastname
}

// Group is a named collection of pupils under one teacher. Membership is a
// reference, not ownership: deleting a group leaves its pupils intact.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Teacher *Teacher `json:"teacher,omitempty"`
	Pupils  []Pupil  `json:"pupils"`
}

// Contains reports whether the pupil id is a member of the group.
func (g Group) Contains(pupilID string) bool {
	for _, p := range g.Pupils {
		if p.ID == pupilID {
			return true
		}
	}
	return false
}

// Teacher is the authenticated actor. The authority serialises the stored
// password hash alongside; the client never uses it.
type Teacher struct {
	ID             string  `json:"id"`
	Login          string  `json:"login"`
	HashedPassword string  `json:"hashed_password"`
	Pupils         []Pupil `json:"pupils"`
}
