package backendtest

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedTeacher registers a teacher account directly in the store and returns
// its id together with a valid bearer token.
func (s *Server) SeedTeacher(login, password string) (id, token string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	teacher := &teacherRecord{ID: uuid.NewString(), Login: login, PasswordHash: string(hash)}
	s.teachers[teacher.ID] = teacher
	s.mu.Unlock()

	return teacher.ID, s.issueToken(login)
}

// SeedGroup registers a group owned by the given teacher.
func (s *Server) SeedGroup(teacherID, name string) (id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := &groupRecord{ID: uuid.NewString(), Name: name, TeacherID: teacherID}
	s.groups[group.ID] = group
	return group.ID
}

// SeedPupil registers a pupil owned by the given teacher, optionally placed
// in a group.
func (s *Server) SeedPupil(teacherID, username, firstname, lastname, password, groupID string) (id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pupil := &pupilRecord{
		ID:        uuid.NewString(),
		Username:  username,
		Firstname: firstname,
		Lastname:  lastname,
		Password:  password,
		TeacherID: teacherID,
	}
	s.pupils[pupil.ID] = pupil
	if teacher, ok := s.teachers[teacherID]; ok {
		teacher.PupilIDs = append(teacher.PupilIDs, pupil.ID)
	}
	if group, ok := s.groups[groupID]; ok {
		group.PupilIDs = append(group.PupilIDs, pupil.ID)
	}
	return pupil.ID
}

// GroupPupilIDs reports the current membership of a group, for assertions.
func (s *Server) GroupPupilIDs(groupID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil
	}
	out := make([]string, len(group.PupilIDs))
	copy(out, group.PupilIDs)
	return out
}
