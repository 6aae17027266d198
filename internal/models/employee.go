package models

import "encoding/json"

// Employee represents an employee record of the `employee` collection.
// ID is the database-assigned document key and is never set by the application.
// Attributes carries any further fields a stored document holds; they are rendered
// next to the known fields and never override them.
type Employee struct {
	ID         string                     `json:"_id,omitempty" bson:"-"`
	Name       string                     `json:"name"          bson:"name"`
	Email      string                     `json:"email"         bson:"email"`
	Mobile     string                     `json:"mobile"        bson:"mobile"`
	Attributes map[string]json.RawMessage `json:"-"             bson:"-"`
}

// MarshalJSON renders the known fields together with Attributes as one flat object.
func (e Employee) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(e.Attributes)+4) //nolint:mnd // _id, name, email, mobile
	for key, value := range e.Attributes {
		fields[key] = value
	}

	if e.ID != "" {
		fields["_id"] = e.ID
	}
	fields["name"] = e.Name
	fields["email"] = e.Email
	fields["mobile"] = e.Mobile

	return json.Marshal(fields)
}
