package form

// Contact field names accepted by the form.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// Contact is a point-in-time copy of the free-text contact fields.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactFields holds the operator-typed contact values keyed by field name.
// All fields start empty and none is structurally required; format validation
// is a collaborator concern, not this store's.
type ContactFields struct {
	name  string
	email string
	phone string
}

// NewContactFields creates an empty contact store.
func NewContactFields() *ContactFields {
	return &ContactFields{}
}

// IsContactField reports whether name is one of the accepted field names.
func IsContactField(name string) bool {
	switch name {
	case FieldName, FieldEmail, FieldPhone:
		return true
	default:
		return false
	}
}

// Set overwrites a single field. It reports false for unknown field names and
// leaves the store unchanged in that case.
func (f *ContactFields) Set(field, value string) bool {
	switch field {
	case FieldName:
		f.name = value
	case FieldEmail:
		f.email = value
	case FieldPhone:
		f.phone = value
	default:
		return false
	}
	return true
}

// Snapshot returns a copy of the current field values.
func (f *ContactFields) Snapshot() Contact {
	return Contact{Name: f.name, Email: f.email, Phone: f.phone}
}

// Reset clears all fields back to their initial empty values.
func (f *ContactFields) Reset() {
	*f = ContactFields{}
}
