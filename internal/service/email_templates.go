package service

import "fmt"

func welcomeEmailTemplate(username, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Add your first habit and check in today to start a streak:
%s

Best,
The %s Team`, username, dashboardURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(username, resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`Hi %s,

You requested to reset your password. Choose a new one with this link:
%s

This link expires in 1 hour and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, username, resetURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(username, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

Your habits, check-ins, followers and connected integrations have been removed.

We're sorry to see you go. You're welcome to create a new account anytime.

Best,
The %s Team`, username, appName, appName)

	return subject, body
}
