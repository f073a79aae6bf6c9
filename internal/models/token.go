package models

// Token is the login exchange result.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// PupilPassword wraps the plaintext credential the authority returns on
// demand. Inherited contract; treat the value as sensitive.
type PupilPassword struct {
	Password string `json:"password"`
}

// TeacherToken is returned when an admin provisions a teacher account.
type TeacherToken struct {
	TeacherToken string `json:"teacher_token"`
}
