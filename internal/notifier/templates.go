package notifier

import (
	"bytes"
	"html/template"
)

var (
	certificateTemplate = template.Must(template.New("certificate").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #4F46E5;">Congratulations, {{.StudentName}}!</h2>
  <p>We are thrilled to certify your success in <strong>{{.CourseName}}</strong>.</p>
  <p>Issued on: <strong>{{.Date}}</strong></p>
  <p>Mentor: <strong>{{.MentorName}}</strong></p>
  <p>Certificate ID: <strong>{{.CertificateNumber}}</strong></p>
  <br/>
  <p>Attached is your official certificate.</p>
</div>`))

	courseUpdateTemplate = template.Must(template.New("course_update").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #4F46E5;">Hello {{.StudentName}},</h2>
  <p>There is an update in your course <strong>{{.CourseName}}</strong>:</p>
  <p style="font-size: 16px;"><strong>{{.Update}}</strong></p>
  <p>Log in to your dashboard to take a look.</p>
</div>`))

	enrollmentTemplate = template.Must(template.New("enrollment").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #4F46E5;">Welcome aboard, {{.StudentName}}!</h2>
  <p>Your enrollment in <strong>{{.CourseName}}</strong> is confirmed.</p>
  <p>Our team will reach out shortly with the next steps.</p>
</div>`))
)

type CertificateEmail struct {
	StudentName       string
	CourseName        string
	Date              string
	MentorName        string
	CertificateNumber string
}

type CourseUpdateEmail struct {
	StudentName string
	CourseName  string
	Update      string
}

type EnrollmentEmail struct {
	StudentName string
	CourseName  string
}

func RenderCertificateEmail(data CertificateEmail) (string, error) {
	return render(certificateTemplate, data)
}

func RenderCourseUpdateEmail(data CourseUpdateEmail) (string, error) {
	return render(courseUpdateTemplate, data)
}

func RenderEnrollmentEmail(data EnrollmentEmail) (string, error) {
	return render(enrollmentTemplate, data)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
