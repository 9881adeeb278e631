// File: internal/pages/login.go
package pages

import (
	"context"
)

// Login page references with fallback locators, from most to least
// specific. These are the worked example of the page-object layer; real
// suites define their own.
var (
	UsernameField = Reference{
		Name: "username-field",
		Locators: []string{
			"//input[@name='username']",
			"//input[@aria-label='Phone number, username, or email']",
			"//input[contains(@placeholder,'username') or contains(@aria-label,'username')]",
		},
	}

	PasswordField = Reference{
		Name: "password-field",
		Locators: []string{
			"//input[@name='password']",
			"//input[@aria-label='Password']",
			"//input[@type='password']",
		},
	}

	LoginButton = Reference{
		Name: "login-button",
		Locators: []string{
			"//button[@type='submit']",
			"//button[contains(normalize-space(),'Log in')]",
			"//button[contains(@class,'login')]",
		},
	}
)

// PopulateCredentials fills the username and password fields through the
// healing resolver.
func PopulateCredentials(ctx context.Context, r ElementResolver, ia Interactor, username, password string) error {
	if _, err := PopulateHealed(ctx, r, ia, UsernameField, username, true); err != nil {
		return err
	}
	if _, err := PopulateHealed(ctx, r, ia, PasswordField, password, true); err != nil {
		return err
	}
	return nil
}

// ClickLogin submits the form by clicking the healed login button.
func ClickLogin(ctx context.Context, r ElementResolver, ia Interactor) error {
	_, err := ClickHealed(ctx, r, ia, LoginButton)
	return err
}
