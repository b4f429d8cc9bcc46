package model

// User represents an application user record as stored in the `users`
// table. Usernames are the primary key; there is no numeric ID. The json
// tags are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//
//	Username     – unique identifier of the account.
//	PasswordHash – bcrypt hashed password.
//	FullName     – display name shown on receipts.
//	Role         – "admin" or "user".
//	Email        – optional address used for receipt delivery.
type User struct {
	Username     string // users.username
	PasswordHash string // users.password_hash
	FullName     string // users.full_name
	Role         string // users.role
	Email        string // users.email
}
