package user

// Record is a user as exposed by the Users API.
// ID is assigned by the server and never changes after creation.
type Record struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	JobTitle  string `json:"jobTitle"`
	Gender    string `json:"gender"`
}

// Field names accepted by the create form, in display order.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldJobTitle  = "jobTitle"
	FieldGender    = "gender"
)

// Fields lists the editable fields of a Record.
var Fields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldJobTitle, FieldGender}

// WithField returns a copy of r with the named field set to value.
// ok is false when name is not an editable field.
func (r Record) WithField(name, value string) (Record, bool) {
	switch name {
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldEmail:
		r.Email = value
	case FieldJobTitle:
		r.JobTitle = value
	case FieldGender:
		r.Gender = value
	default:
		return r, false
	}
	return r, true
}

// Field returns the value of the named field, or "" for unknown names.
func (r Record) Field(name string) string {
	switch name {
	case "id":
		return r.ID
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldEmail:
		return r.Email
	case FieldJobTitle:
		return r.JobTitle
	case FieldGender:
		return r.Gender
	}
	return ""
}

// Page is one window of records plus the total number of records on the server.
type Page struct {
	Users []Record `json:"users"`
	Total int64    `json:"total"`
}
