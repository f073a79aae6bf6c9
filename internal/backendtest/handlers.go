package backendtest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type pupilBody struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type teacherBody struct {
	ID             string      `json:"id"`
	Login          string      `json:"login"`
	HashedPassword string      `json:"hashed_password"`
	Pupils         []pupilBody `json:"pupils"`
}

type groupBody struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Teacher *teacherBody `json:"teacher,omitempty"`
	Pupils  []pupilBody  `json:"pupils"`
}

func (s *Server) pupilBody(id string) pupilBody {
	p := s.pupils[id]
	return pupilBody{ID: p.ID, Username: p.Username, Firstname: p.Firstname, Lastname: p.Lastname}
}

func (s *Server) teacherBody(t *teacherRecord) *teacherBody {
	body := &teacherBody{ID: t.ID, Login: t.Login, HashedPassword: t.PasswordHash, Pupils: []pupilBody{}}
	for _, id := range t.PupilIDs {
		body.Pupils = append(body.Pupils, s.pupilBody(id))
	}
	return body
}

func (s *Server) groupBody(g *groupRecord) groupBody {
	body := groupBody{ID: g.ID, Name: g.Name, Teacher: s.teacherBody(s.teachers[g.TeacherID]), Pupils: []pupilBody{}}
	for _, id := range g.PupilIDs {
		body.Pupils = append(body.Pupils, s.pupilBody(id))
	}
	return body
}

// --- teacher surface ---

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	s.mu.Lock()
	teacher := s.findTeacherByLogin(username)
	s.mu.Unlock()

	if teacher == nil || bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(password)) != nil {
		detail(c, http.StatusUnauthorized, "Incorrect login or password.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": s.issueToken(teacher.Login), "token_type": "bearer"})
}

func (s *Server) listPupils(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teacher := s.currentTeacher(c)
	out := []pupilBody{}
	for _, id := range teacher.PupilIDs {
		out = append(out, s.pupilBody(id))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createPupil(c *gin.Context) {
	var req struct {
		Firstname string `json:"firstname" binding:"required"`
		Lastname  string `json:"lastname" binding:"required"`
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pupils {
		if p.Username == req.Username {
			detail(c, http.StatusConflict, "Login already exists.")
			return
		}
	}

	teacher := s.currentTeacher(c)
	pupil := &pupilRecord{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
		TeacherID: teacher.ID,
	}
	s.pupils[pupil.ID] = pupil
	teacher.PupilIDs = append(teacher.PupilIDs, pupil.ID)

	c.JSON(http.StatusOK, s.pupilBody(pupil.ID))
}

func (s *Server) deletePupil(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pupils[id]; !ok {
		detail(c, http.StatusNotFound, "Pupil not found.")
		return
	}

	delete(s.pupils, id)
	for _, t := range s.teachers {
		t.PupilIDs = removeID(t.PupilIDs, id)
	}
	// Cascade: the pupil disappears from every group's membership list.
	for _, g := range s.groups {
		g.PupilIDs = removeID(g.PupilIDs, id)
	}

	c.JSON(http.StatusOK, "OK")
}

func (s *Server) pupilPassword(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pupil, ok := s.pupils[c.Param("id")]
	if !ok {
		detail(c, http.StatusNotFound, "Pupil not found.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"password": pupil.Password})
}

// --- group surface ---

func (s *Server) listGroups(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teacher := s.currentTeacher(c)
	out := []groupBody{}
	for _, g := range s.groups {
		if g.TeacherID == teacher.ID {
			out = append(out, s.groupBody(g))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createGroup(c *gin.Context) {
	var req struct {
		GroupName string `json:"group_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Name == req.GroupName {
			detail(c, http.StatusConflict, "Group with this name already exists")
			return
		}
	}

	group := &groupRecord{ID: uuid.NewString(), Name: req.GroupName, TeacherID: s.currentTeacher(c).ID}
	s.groups[group.ID] = group
	c.JSON(http.StatusOK, s.groupBody(group))
}

func (s *Server) renameGroup(c *gin.Context) {
	var req struct {
		GroupID      string `json:"group_id" binding:"required"`
		NewGroupName string `json:"new_group_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[req.GroupID]
	if !ok {
		detail(c, http.StatusNotFound, "Group not found.")
		return
	}
	group.Name = req.NewGroupName
	c.JSON(http.StatusOK, s.groupBody(group))
}

func (s *Server) deleteGroups(c *gin.Context) {
	ids := c.QueryArray("groups_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, id := range ids {
		if _, ok := s.groups[id]; ok {
			found = true
			delete(s.groups, id)
		}
	}
	if !found {
		detail(c, http.StatusNotFound, "Group not found.")
		return
	}
	c.JSON(http.StatusOK, "OK")
}

func (s *Server) addPupilsToGroup(c *gin.Context) {
	var req struct {
		GroupID  string   `json:"group_id" binding:"required"`
		PupilIDs []string `json:"pupil_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[req.GroupID]
	if !ok {
		detail(c, http.StatusNotFound, "Group not found.")
		return
	}
	for _, id := range req.PupilIDs {
		if _, ok := s.pupils[id]; !ok {
			detail(c, http.StatusNotFound, "Pupil not found.")
			return
		}
	}

	for _, id := range req.PupilIDs {
		// Exclusive membership: attaching here detaches everywhere else.
		for _, other := range s.groups {
			if other.ID != group.ID {
				other.PupilIDs = removeID(other.PupilIDs, id)
			}
		}
		if !containsID(group.PupilIDs, id) {
			group.PupilIDs = append(group.PupilIDs, id)
		}
	}

	c.JSON(http.StatusOK, s.groupBody(group))
}

func (s *Server) removePupilsFromGroup(c *gin.Context) {
	groupID := c.Query("group_id")
	pupilIDs := c.QueryArray("pupil_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		detail(c, http.StatusNotFound, "Group not found.")
		return
	}
	// Every id is checked before any membership changes; a rejected request
	// leaves the group exactly as it was.
	for _, id := range pupilIDs {
		if _, ok := s.pupils[id]; !ok {
			detail(c, http.StatusNotFound, "Pupil not found.")
			return
		}
	}
	for _, id := range pupilIDs {
		group.PupilIDs = removeID(group.PupilIDs, id)
	}

	c.JSON(http.StatusOK, s.groupBody(group))
}

// --- admin surface ---

func (s *Server) listTeachers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []teacherBody{}
	for _, t := range s.teachers {
		out = append(out, *s.teacherBody(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createTeacher(c *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTeacherByLogin(req.Login) != nil {
		detail(c, http.StatusConflict, "Login already exists.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		detail(c, http.StatusInternalServerError, "hash password")
		return
	}
	teacher := &teacherRecord{ID: uuid.NewString(), Login: req.Login, PasswordHash: string(hash)}
	s.teachers[teacher.ID] = teacher

	c.JSON(http.StatusOK, gin.H{"teacher_token": s.issueToken(teacher.Login)})
}

func (s *Server) deleteTeacher(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	teacher, ok := s.teachers[id]
	if !ok {
		detail(c, http.StatusNotFound, "Teacher not found.")
		return
	}
	for _, pupilID := range teacher.PupilIDs {
		delete(s.pupils, pupilID)
		for _, g := range s.groups {
			g.PupilIDs = removeID(g.PupilIDs, pupilID)
		}
	}
	for gid, g := range s.groups {
		if g.TeacherID == id {
			delete(s.groups, gid)
		}
	}
	delete(s.teachers, id)

	c.JSON(http.StatusOK, "OK")
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
