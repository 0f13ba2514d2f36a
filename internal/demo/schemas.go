package demo

import (
	"github.com/goliatone/go-multiform/pkg/fieldform"
	"github.com/goliatone/go-multiform/pkg/form"
)

// Form kinds registered by Registry.
const (
	KindComment  = "comment"
	KindRequest  = "request"
	KindRegister = "register"
)

// CommentSchema is a name and a message.
func CommentSchema() *fieldform.Schema {
	return fieldform.MustNew(KindComment, []fieldform.Field{
		{Name: "name", Type: fieldform.FieldTypeString, Label: "Name", Required: true, Validations: []fieldform.ValidationRule{fieldform.MaxLength(100)}},
		{Name: "message", Type: fieldform.FieldTypeString, Label: "Message", Required: true},
	})
}

// RequestSchema is a contact email and a free-text request.
func RequestSchema() *fieldform.Schema {
	return fieldform.MustNew(KindRequest, []fieldform.Field{
		{Name: "email", Type: fieldform.FieldTypeEmail, Label: "Email", Required: true},
		{Name: "request", Type: fieldform.FieldTypeString, Label: "Request", Required: true},
	})
}

// RegisterSchema is a username and a password.
func RegisterSchema() *fieldform.Schema {
	return fieldform.MustNew(KindRegister, []fieldform.Field{
		{Name: "username", Type: fieldform.FieldTypeString, Label: "Username", Required: true, Validations: []fieldform.ValidationRule{fieldform.MaxLength(150)}},
		{Name: "password", Type: fieldform.FieldTypeString, Label: "Password", Required: true, InputType: "password"},
	})
}

// Registry returns the demo schemas keyed by kind, for config documents.
func Registry() *form.Registry {
	reg := form.NewRegistry()
	reg.MustRegister(KindComment, CommentSchema())
	reg.MustRegister(KindRequest, RequestSchema())
	reg.MustRegister(KindRegister, RegisterSchema())
	return reg
}
