// Package mailer delivers account verification emails in the background.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var verificationTemplate = template.Must(template.ParseFS(templateFS, "templates/verification.html"))

// ConfirmPath is the route, relative to the service base URL, that confirms an email token.
const ConfirmPath = "api/auth/confirmed_email/"

// Verification is a single email verification message.
type Verification struct {
	To       string
	Username string
	BaseURL  string
	Token    string
}

// ConfirmURL is the link the recipient follows to confirm the address.
func (v Verification) ConfirmURL() string {
	base := v.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + ConfirmPath + v.Token
}

// Sender delivers a verification email synchronously.
type Sender interface {
	Send(ctx context.Context, v Verification) error
}

// RenderVerification renders the HTML body of a verification email.
func RenderVerification(v Verification) (string, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, struct {
		Username   string
		Host       string
		ConfirmURL string
	}{
		Username:   v.Username,
		Host:       v.BaseURL,
		ConfirmURL: v.ConfirmURL(),
	})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
