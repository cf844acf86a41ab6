package email

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"github.com/autoelectric/shopsvc"
)

const (
	shopName    = "Auto Electric Missoula"
	shopPhone   = "(406) 728-9153"
	urgentLabel = "⚠️ URGENT REQUEST"
)

// contactView flattens a submission so templates never see nil pointers.
type contactView struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Vehicle   string
	Service   string
	Message   string
	Urgent    bool
	Shop      string
	ShopPhone string
	Urgency   string
}

func viewOf(c shopsvc.Contact) contactView {
	return contactView{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     shopsvc.Value(c.Phone),
		Vehicle:   shopsvc.Value(c.Vehicle),
		Service:   shopsvc.Value(c.Service),
		Message:   shopsvc.Value(c.Message),
		Urgent:    c.Urgent,
		Shop:      shopName,
		ShopPhone: shopPhone,
		Urgency:   urgentLabel,
	}
}

var businessText = template.Must(template.New("business.txt").Parse(`New Contact Form Submission
{{if .Urgent}}{{.Urgency}}{{end}}

Customer Information:
Name: {{.FirstName}} {{.LastName}}
Email: {{.Email}}
Phone: {{.Phone}}
Vehicle: {{.Vehicle}}
Service: {{.Service}}

Message:
{{.Message}}

This email was sent from the {{.Shop}} contact form.
`))

var businessHTML = htmltemplate.Must(htmltemplate.New("business.html").Parse(`<h2>New Contact Form Submission</h2>
{{if .Urgent}}<p style="color: red; font-weight: bold;">{{.Urgency}}</p>{{end}}

<h3>Customer Information:</h3>
<ul>
  <li><strong>Name:</strong> {{.FirstName}} {{.LastName}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Phone:</strong> {{.Phone}}</li>
  <li><strong>Vehicle:</strong> {{.Vehicle}}</li>
  <li><strong>Service:</strong> {{.Service}}</li>
</ul>

<h3>Message:</h3>
<p>{{.Message}}</p>

<hr>
<p><em>This email was sent from the {{.Shop}} contact form.</em></p>
`))

var customerText = template.Must(template.New("customer.txt").Parse(`Thank you for contacting {{.Shop}}!

Hi {{.FirstName}},

We've received your message and will get back to you within 2 business hours during our operating hours:

Monday - Friday: 8:00 AM - 4:00 PM

Your message details:
Service: {{.Service}}
Vehicle: {{.Vehicle}}
Message: {{.Message}}

If you have an urgent electrical issue, please call us directly at {{.ShopPhone}}.

Thank you for choosing {{.Shop}} for your automotive electrical needs!

Auto Electric Service Co.
2602 West Broadway
Missoula, MT 59808
Phone: {{.ShopPhone}}
`))

var customerHTML = htmltemplate.Must(htmltemplate.New("customer.html").Parse(`<h2>Thank you for contacting {{.Shop}}!</h2>

<p>Hi {{.FirstName}},</p>

<p>We've received your message and will get back to you within 2 business hours during our operating hours:</p>

<p><strong>Monday - Friday: 8:00 AM - 4:00 PM</strong></p>

<h3>Your message details:</h3>
<ul>
  <li><strong>Service:</strong> {{.Service}}</li>
  <li><strong>Vehicle:</strong> {{.Vehicle}}</li>
  <li><strong>Message:</strong> {{.Message}}</li>
</ul>

<p>If you have an urgent electrical issue, please call us directly at <strong>{{.ShopPhone}}</strong>.</p>

<p>Thank you for choosing {{.Shop}} for your automotive electrical needs!</p>

<hr>
<p>
  <strong>Auto Electric Service Co.</strong><br>
  2602 West Broadway<br>
  Missoula, MT 59808<br>
  Phone: {{.ShopPhone}}
</p>
`))

func render(text *template.Template, html *htmltemplate.Template, v contactView) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, v); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, v); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

func businessSubject(c shopsvc.Contact) string {
	subject := "New Contact Form Submission - " + c.FullName()
	if c.Urgent {
		subject = "[URGENT] " + subject
	}
	return subject
}

const customerSubject = "Thank you for contacting " + shopName
