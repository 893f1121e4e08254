package utils

import (
	"fmt"
	"html"
)

// HTML wrapper shared by every platform email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 40px 20px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0 0 5px 0; font-size: 28px; }
			.content { padding: 40px 30px; color: #333333; line-height: 1.8; }
			.content h2 { color: #667eea; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 14px 32px; background: #667eea; color: #FFFFFF; text-decoration: none; border-radius: 6px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #F0F2FD; padding: 20px; border-radius: 4px; border-left: 4px solid #667eea; margin: 25px 0; }
			.mono { font-family: monospace; color: #764ba2; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Verve Academy</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Verve Academy | Cybersecurity Learning Platform<br>
				This is an automated message, please do not reply to this email.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// CourseCompletionEmail is the HTML body sent when a certificate is issued.
func CourseCompletionEmail(userName, courseName, certificateNumber, certificateURL string) string {
	body := fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>We're thrilled to inform you that you have successfully completed the course:</p>
		<div class="info-box">
			<h3 style="margin: 0 0 10px 0;">%s</h3>
			<p><strong>Certificate Number:</strong> <span class="mono">%s</span></p>
		</div>
		<p>Your certificate of completion has been generated and is ready for download.</p>
		<div style="text-align: center;">
			<a href="%s" class="btn">View My Certificate</a>
		</div>
		<p><strong>What's Next?</strong></p>
		<ul>
			<li>Share your achievement with your network</li>
			<li>Explore more courses to expand your knowledge</li>
			<li>Download your certificate for your records</li>
		</ul>
		<p>Thank you for choosing Verve Academy. Keep up the excellent work!</p>
	`,
		html.EscapeString(userName),
		html.EscapeString(courseName),
		html.EscapeString(certificateNumber),
		html.EscapeString(certificateURL),
	)
	return getEmailTemplate("Congratulations! You've Successfully Completed a Course", body)
}

// CourseCompletionText is the plain text alternative of CourseCompletionEmail.
func CourseCompletionText(userName, courseName, certificateNumber, certificateURL string) string {
	return fmt.Sprintf(`Verve Academy
Congratulations! You've Successfully Completed a Course

Dear %s,

We're thrilled to inform you that you have successfully completed the course: %s

Certificate Number: %s

Your certificate of completion has been generated and is ready for download.

View your certificate here: %s

What's Next?
- Share your achievement with your network
- Explore more courses to expand your knowledge
- Download your certificate for your records

Thank you for choosing Verve Academy. Keep up the excellent work!

---
Verve Academy | Cybersecurity Learning Platform
This is an automated message, please do not reply to this email.
`, userName, courseName, certificateNumber, certificateURL)
}
