package types

// User is the identity issued by the Auth API. It is replaced wholesale on
// login and cleared on logout; nothing in this module mutates it in place.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
