// Package backendtest is an in-process double of the remote authority's
// REST contract, for exercising the membership client without a deployed
// backend. It reproduces the authority's observable semantics: bare JSON
// bodies, {"detail": ...} errors, exclusive group membership on attach,
// cascade removal on pupil delete, plaintext password retrieval, and
// x-admin-password on the admin surface.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/babirusa/teacher-console/pkg/middleware/requestid"
)

const tokenLifetime = 24 * time.Hour

type teacherRecord struct {
	ID           string
	Login        string
	PasswordHash string
	PupilIDs     []string
}

type pupilRecord struct {
	ID        string
	Username  string
	Firstname string
	Lastname  string
	Password  string
	TeacherID string
}

type groupRecord struct {
	ID        string
	Name      string
	TeacherID string
	PupilIDs  []string
}

// Server hosts the double over httptest.
type Server struct {
	AdminPassword string

	secret []byte
	srv    *httptest.Server

	mu       sync.Mutex
	teachers map[string]*teacherRecord
	pupils   map[string]*pupilRecord
	groups   map[string]*groupRecord
	requests map[string]int
	failures map[string]int
}

// New starts the double. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		AdminPassword: "test-admin-password",
		secret:        []byte("backendtest-secret"),
		teachers:      make(map[string]*teacherRecord),
		pupils:        make(map[string]*pupilRecord),
		groups:        make(map[string]*groupRecord),
		requests:      make(map[string]int),
		failures:      make(map[string]int),
	}

	r := gin.New()
	r.Use(requestid.Middleware())
	r.Use(s.count())

	api := r.Group("/api")
	api.POST("/teacher/login", s.login)
	api.POST("/teacher/create", s.createTeacher)
	api.GET("/teacher", s.adminAuth, s.listTeachers)
	api.DELETE("/teacher/:id", s.adminAuth, s.deleteTeacher)

	authed := api.Group("", s.bearerAuth)
	authed.GET("/teacher/pupils", s.listPupils)
	authed.POST("/teacher/pupils/new", s.createPupil)
	authed.DELETE("/teacher/pupils/:id", s.deletePupil)
	authed.GET("/teacher/pupils/:id/password", s.pupilPassword)
	authed.GET("/teacher/groups", s.listGroups)
	authed.POST("/teacher/groups/new", s.createGroup)
	authed.PATCH("/teacher/groups", s.renameGroup)
	authed.DELETE("/teacher/groups", s.deleteGroups)
	authed.POST("/teacher/groups/pupils", s.addPupilsToGroup)
	authed.DELETE("/teacher/groups/pupils", s.removePupilsFromGroup)

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the double's base URL.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the double down.
func (s *Server) Close() { s.srv.Close() }

// Requests reports how many requests hit the given route, keyed as
// "METHOD /path/template". An empty key reports the total.
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		total := 0
		for _, n := range s.requests {
			total += n
		}
		return total
	}
	return s.requests[key]
}

// FailNext makes the next request to the route answer with the given
// status and a generic detail, then restores normal behaviour.
func (s *Server) FailNext(routeKey string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey] = status
}

func (s *Server) count() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.FullPath()

		s.mu.Lock()
		s.requests[key]++
		status, forced := s.failures[key]
		if forced {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if forced {
			detail(c, status, "forced failure")
			c.Abort()
			return
		}
		c.Next()
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// --- auth ---

func (s *Server) issueToken(login string) string {
	claims := jwt.MapClaims{
		"sub": login,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("backendtest: sign token: %v", err))
	}
	return token
}

func (s *Server) bearerAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		detail(c, http.StatusUnauthorized, "Incorrect login or password.")
		c.Abort()
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		detail(c, http.StatusUnauthorized, "Incorrect login or password.")
		c.Abort()
		return
	}

	login, _ := claims["sub"].(string)
	s.mu.Lock()
	teacher := s.findTeacherByLogin(login)
	s.mu.Unlock()
	if teacher == nil {
		detail(c, http.StatusUnauthorized, "Incorrect login or password.")
		c.Abort()
		return
	}

	c.Set("teacherID", teacher.ID)
	c.Next()
}

func (s *Server) adminAuth(c *gin.Context) {
	if c.GetHeader("x-admin-password") != s.AdminPassword {
		detail(c, http.StatusUnauthorized, "Invalid admin password.")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) currentTeacher(c *gin.Context) *teacherRecord {
	id := c.GetString("teacherID")
	return s.teachers[id]
}

func (s *Server) findTeacherByLogin(login string) *teacherRecord {
	for _, t := range s.teachers {
		if t.Login == login {
			return t
		}
	}
	return nil
}
