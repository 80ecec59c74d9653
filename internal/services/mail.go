package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendReviewDecisionEmail notifies a contributor that a supervisor approved
// or rejected one of their dataset versions. Failures are reported to the
// caller, which treats notification as best-effort.
func SendReviewDecisionEmail(toEmail, datasetName string, versionNumber int, decision, comments string) error {
	from := mail.NewEmail("Bayanat", "noreply@bayanat.app")
	subject := fmt.Sprintf("Your dataset %q version %d was %s", datasetName, versionNumber, decision)
	to := mail.NewEmail("Contributor", toEmail)

	commentsBlock := ""
	if comments != "" {
		commentsBlock = fmt.Sprintf(`<p><strong>Reviewer comments:</strong></p><p>%s</p>`, comments)
	}

	htmlContent := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2 style="color: #2c3e50;">Review decision: %s</h2>
			<p>Version %d of your dataset <strong>%s</strong> has been %s by a supervisor.</p>
			%s
			<p>Best regards,<br>The Bayanat team</p>
		</div>
        `, decision, versionNumber, datasetName, decision, commentsBlock)

	plainTextContent := fmt.Sprintf("Version %d of your dataset %q has been %s.", versionNumber, datasetName, decision)
	if comments != "" {
		plainTextContent += " Reviewer comments: " + comments
	}

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(message)
	if err != nil {
		return err
	}
	return nil
}
