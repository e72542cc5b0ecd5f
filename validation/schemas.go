package validation

import (
	"fmt"
	"strings"

	"mailcraft-backend/auth"
	"mailcraft-backend/models"
)

// SignupSchema validates POST /user/signup bodies.
var SignupSchema = Schema{Fields: []Field{
	{Name: "email", Kind: KindString, Rules: []Rule{
		{Tag: "email", Message: "Invalid email"},
	}},
	{Name: "username", Kind: KindString, Rules: []Rule{
		{Tag: "min=3", Message: "Username must be at least 3 characters"},
	}},
	{Name: "password", Kind: KindString, Rules: []Rule{
		{Tag: "min=4", Message: "Password must be at least 4 characters"},
		{Tag: fmt.Sprintf("maxbytes=%d", auth.MaxPasswordBytes), Message: fmt.Sprintf("Password cannot be longer than %d bytes", auth.MaxPasswordBytes)},
	}},
}}

// SigninSchema validates POST /user/signin bodies.
var SigninSchema = Schema{Fields: []Field{
	{Name: "email", Kind: KindString, Rules: []Rule{
		{Tag: "email", Message: "Invalid email address"},
	}},
	{Name: "password", Kind: KindString},
}}

// GenerateEmailSchema validates POST /email/generate-email bodies.
var GenerateEmailSchema = Schema{Fields: []Field{
	{Name: "purpose", Kind: KindString, Rules: []Rule{
		{Tag: "min=3", Message: "Purpose must be at least 3 characters"},
	}},
	{Name: "subjectLine", Kind: KindString, Rules: []Rule{
		{Tag: "min=3", Message: "Subject line must be at least 3 characters"},
	}},
	{Name: "recipients", Kind: KindString, Rules: []Rule{
		{Tag: "min=3", Message: "Recipients must be at least 3 characters"},
	}},
	{Name: "senders", Kind: KindString, Rules: []Rule{
		{Tag: "min=3", Message: "Senders must be at least 3 characters"},
	}},
	{Name: "maxLength", Kind: KindNumber, Integer: true, Rules: []Rule{
		{Tag: fmt.Sprintf("gte=%d", models.MinEmailLength), Message: fmt.Sprintf("Max length cannot be less than %d", models.MinEmailLength)},
		{Tag: fmt.Sprintf("lte=%d", models.MaxEmailLength), Message: fmt.Sprintf("Max length cannot be greater than %d", models.MaxEmailLength)},
	}},
	{Name: "tone", Kind: KindString, Optional: true, Rules: []Rule{
		{Tag: "oneof=" + joinTones(" "), Message: "Tone must be one of: " + joinTones(", ")},
	}},
}}

func joinTones(sep string) string {
	names := make([]string, len(models.Tones))
	for i, t := range models.Tones {
		names[i] = string(t)
	}
	return strings.Join(names, sep)
}

// SignupInput is a validated signup request.
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// ParseSignup validates input against SignupSchema.
func ParseSignup(input map[string]any) (SignupInput, Violations) {
	values, violations := SignupSchema.Validate(input)
	if violations != nil {
		return SignupInput{}, violations
	}
	return SignupInput{
		Email:    values.String("email"),
		Username: values.String("username"),
		Password: values.String("password"),
	}, nil
}

// SigninInput is a validated signin request.
type SigninInput struct {
	Email    string
	Password string
}

// ParseSignin validates input against SigninSchema.
func ParseSignin(input map[string]any) (SigninInput, Violations) {
	values, violations := SigninSchema.Validate(input)
	if violations != nil {
		return SigninInput{}, violations
	}
	return SigninInput{
		Email:    values.String("email"),
		Password: values.String("password"),
	}, nil
}

// GenerateEmailInput is a validated generation request. Tone is always set.
type GenerateEmailInput struct {
	Purpose     string
	SubjectLine string
	Recipients  string
	Senders     string
	MaxLength   int
	Tone        models.Tone
}

// ParseGenerateEmail validates input against GenerateEmailSchema and
// substitutes models.DefaultTone when no tone was given.
func ParseGenerateEmail(input map[string]any) (GenerateEmailInput, Violations) {
	values, violations := GenerateEmailSchema.Validate(input)
	if violations != nil {
		return GenerateEmailInput{}, violations
	}

	tone := models.DefaultTone
	if values.Has("tone") {
		tone = models.Tone(values.String("tone"))
	}

	return GenerateEmailInput{
		Purpose:     values.String("purpose"),
		SubjectLine: values.String("subjectLine"),
		Recipients:  values.String("recipients"),
		Senders:     values.String("senders"),
		MaxLength:   values.Int("maxLength"),
		Tone:        tone,
	}, nil
}
