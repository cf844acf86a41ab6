package sms

import (
	"fmt"

	"github.com/autoelectric/shopsvc"
)

const shopPhone = "(406) 555-0123"

func bookingConfirmation(b shopsvc.Booking) string {
	return fmt.Sprintf(`Hi %s! Your automotive electrical service appointment at Auto Electric Missoula is confirmed:

Service: %s
Vehicle: %s
Date: %s
Time: %s

We'll send you a reminder 24 hours before your appointment. If you need to reschedule, please call us at %s.

- Auto Electric Missoula Team`, b.CustomerName, b.Service, b.Vehicle, b.Date, b.Time, shopPhone)
}

func businessNotification(b shopsvc.Booking) string {
	return fmt.Sprintf(`New appointment booking at Auto Electric Missoula:

Customer: %s
Phone: %s
Service: %s
Vehicle: %s
Date: %s
Time: %s

Please confirm appointment and prepare for service.`, b.CustomerName, b.CustomerPhone, b.Service, b.Vehicle, b.Date, b.Time)
}

func contactNotification(c shopsvc.Contact) string {
	tag := ""
	closing := "Please follow up with the customer."
	if c.Urgent {
		tag = "[URGENT] "
		closing = "This is marked as urgent - please respond promptly."
	}

	return fmt.Sprintf(`%sNew contact form submission:

Name: %s
Phone: %s
Email: %s
Service: %s
Message: %s

%s`, tag, c.FullName(), shopsvc.Value(c.Phone), c.Email, shopsvc.Value(c.Service), shopsvc.Value(c.Message), closing)
}
