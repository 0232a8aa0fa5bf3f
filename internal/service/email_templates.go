package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Start by writing down one goal and the objectives that lead to it:
%s

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func accountDeactivatedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deactivated", appName)
	body := fmt.Sprintf(`Hi %s,

An administrator deactivated your %s account. Your data is kept, but you can no longer sign in.

If you think this is a mistake, reply to this email.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}
