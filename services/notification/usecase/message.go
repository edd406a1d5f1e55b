package usecase

import (
	"fmt"
	"strings"

	"fichai/domain"
)

// ComposeAlertMessage builds the subject and plain text body sent to a recipient.
func ComposeAlertMessage(appName, contactPhone string, recipient *domain.Employee, alert *domain.Alert) (string, string) {
	greeting := "Hello"
	if recipient.Gender != nil {
		switch *recipient.Gender {
		case "male":
			greeting = "Dear Mr."
		case "female":
			greeting = "Dear Ms."
		}
	}

	subject := fmt.Sprintf("%s alert: %s", appName, alert.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s,\n\n", greeting, recipient.Name)
	fmt.Fprintf(&b, "A new %s alert was raised", strings.ReplaceAll(string(alert.Type), "_", " "))
	if alert.Employee != nil {
		fmt.Fprintf(&b, " for %s", alert.Employee.Name)
	}
	fmt.Fprintf(&b, " at %s.\n\n", alert.CreatedAt.Format("02/01/2006 15:04"))
	if alert.Description != "" {
		b.WriteString(alert.Description)
		b.WriteString("\n\n")
	}
	if contactPhone != "" {
		fmt.Fprintf(&b, "If you have any questions, you can contact us at %s.\n\n", contactPhone)
	}
	fmt.Fprintf(&b, "Sincerely,\n%s", appName)
	return subject, b.String()
}
